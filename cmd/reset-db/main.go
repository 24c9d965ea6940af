package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/env"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reset-db"})
	_ = godotenv.Load()

	confirm := flag.Bool("confirm", false, "required: acknowledge that every row will be deleted")
	allowProd := flag.Bool("allow-prod", env.Flag("SNACKS_RESET_ALLOW_PROD"), "permit running against a production environment")
	flag.Parse()

	if !*confirm {
		fmt.Fprintln(os.Stderr, "refusing to wipe the database without -confirm")
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "reset-db",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"driver": cfg.DB.Driver,
	})

	if cfg.App.IsProd() && !*allowProd {
		fmt.Fprintln(os.Stderr, "refusing to wipe a production database without -allow-prod")
		os.Exit(2)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	counts, err := migrate.ResetAll(ctx, dbClient)
	if err != nil {
		logg.Error(ctx, "database reset failed", err)
		os.Exit(1)
	}

	for _, c := range counts {
		fmt.Printf("%-16s %d rows deleted\n", c.Table, c.Deleted)
	}
	logg.Info(ctx, "database reset complete")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
