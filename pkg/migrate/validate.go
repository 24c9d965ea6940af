package migrate

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// ValidateDir checks the migration set in dir, or the embedded set when dir is empty.
func ValidateDir(dir string) error {
	files, err := Files(dir)
	if err != nil {
		return err
	}
	return Validate(files)
}

// Validate checks file names, version uniqueness and goose annotations.
// An empty set is valid.
func Validate(files fs.FS) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	versions := make(map[string]string, len(names))
	for _, name := range names {
		version, ok := parseFileName(name)
		if !ok {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, dup := versions[version]; dup {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		versions[version] = name

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return fmt.Errorf("read %q: %w", name, err)
		}
		if err := checkAnnotations(string(body)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

func parseFileName(name string) (string, bool) {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok {
		return "", false
	}
	version, label, ok := strings.Cut(base, "_")
	if !ok || len(version) != 14 || label == "" {
		return "", false
	}
	for _, r := range version {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	for _, r := range label {
		if !isNameRune(r) {
			return "", false
		}
	}
	return version, true
}

func checkAnnotations(body string) error {
	up := strings.Index(body, "-- +goose Up")
	down := strings.Index(body, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf(`missing "-- +goose Up"`)
	case down < 0:
		return fmt.Errorf(`missing "-- +goose Down"`)
	case down < up:
		return fmt.Errorf("down section precedes up section")
	}
	begins := strings.Count(body, "-- +goose StatementBegin")
	ends := strings.Count(body, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("unbalanced statement blocks: %d begin, %d end", begins, ends)
	}
	return nil
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
