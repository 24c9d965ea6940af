package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory (empty uses the files embedded in the binary)")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate work on files only and never need config.
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		if err != nil {
			fail("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)
	if cfg.DB.IsSQLite() {
		fail("goose migrations target postgres; sqlite schemas are auto-migrated on startup")
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(logg, "sql database", err)

	runner, err := migrate.NewRunner(sqlDB, *dir)
	requireResource(logg, "goose provider", err)
	defer runner.Close()

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up":
		steps, err := runner.Up(ctx)
		printSteps(steps)
		if err != nil {
			fail("%v", err)
		}
	case "down":
		step, err := runner.Down(ctx)
		if err != nil {
			fail("%v", err)
		}
		if step != nil {
			printSteps([]migrate.Step{*step})
		}
	case "status":
		states, err := runner.Status(ctx)
		if err != nil {
			fail("%v", err)
		}
		printStates(states)
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		steps, err := runner.MigrateTo(ctx, *version)
		printSteps(steps)
		if err != nil {
			fail("%v", err)
		}
	default:
		fail("unknown -cmd value: %s", *cmd)
	}
}

func printSteps(steps []migrate.Step) {
	if len(steps) == 0 {
		fmt.Println("no migrations to run")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range steps {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Direction, s.Version, s.Path, s.Duration)
	}
	_ = w.Flush()
}

func printStates(states []migrate.State) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tAPPLIED AT\tFILE")
	for _, s := range states {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, applied, s.Path)
	}
	_ = w.Flush()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
