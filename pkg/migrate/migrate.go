package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migration files are created.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Step describes one applied or rolled back migration.
type Step struct {
	Version   int64
	Path      string
	Direction string
	Duration  time.Duration
	Empty     bool
}

// State describes one migration as seen by the database.
type State struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Files returns the migration set: the embedded files when dir is empty,
// otherwise the directory on disk.
func Files(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embedded, "migrations")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat migrations dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("migrations path %q is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Runner applies the Postgres SQL migrations through a goose provider.
type Runner struct {
	provider *goose.Provider
}

// NewRunner builds a runner over db. sqlite databases are migrated with AutoMigrate instead.
func NewRunner(db *sql.DB, dir string) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) ([]Step, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return toSteps(results), fmt.Errorf("goose up: %w", err)
	}
	return toSteps(results), nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) (*Step, error) {
	result, err := r.provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose down: %w", err)
	}
	steps := toSteps([]*goose.MigrationResult{result})
	if len(steps) == 0 {
		return nil, nil
	}
	return &steps[0], nil
}

// Status lists every known migration with its applied state.
func (r *Runner) Status(ctx context.Context) ([]State, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]State, 0, len(statuses))
	for _, s := range statuses {
		if s == nil || s.Source == nil {
			continue
		}
		out = append(out, State{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// MigrateTo moves the database up or down until it sits at target
// (YYYYMMDDHHMMSS).
func (r *Runner) MigrateTo(ctx context.Context, target string) ([]Step, error) {
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil || version < 0 {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", target)
	}

	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == version:
		return nil, nil
	case current < version:
		results, err = r.provider.UpTo(ctx, version)
	default:
		results, err = r.provider.DownTo(ctx, version)
	}
	if err != nil {
		return toSteps(results), fmt.Errorf("goose migrate to %d: %w", version, err)
	}
	return toSteps(results), nil
}

// Close releases the provider's session locker, if any.
func (r *Runner) Close() error {
	return r.provider.Close()
}

func toSteps(results []*goose.MigrationResult) []Step {
	steps := make([]Step, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		steps = append(steps, Step{
			Version:   res.Source.Version,
			Path:      res.Source.Path,
			Direction: res.Direction,
			Duration:  res.Duration,
			Empty:     res.Empty,
		})
	}
	return steps
}
