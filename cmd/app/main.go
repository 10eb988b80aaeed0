// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/database"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/server"
	"codeberg.org/oliverandrich/timetracker/internal/services/auth"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cmd := &cli.Command{
		Name:           "timetracker",
		Usage:          "Track working hours, leave and project targets",
		Version:        fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:          config.Flags(),
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: server.Run,
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply all pending migrations", Action: migrateUp},
					{Name: "down", Usage: "Roll back the latest migration", Action: migrateDown},
					{Name: "status", Usage: "Print the current schema version", Action: migrateStatus},
				},
			},
			{
				Name:      "promote",
				Usage:     "Grant administrator rights to a user",
				ArgsUsage: "<username>",
				Action:    promote,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// withDB opens the configured database, which applies pending migrations,
// and runs fn on it.
func withDB(cmd *cli.Command, fn func(*config.Config, *sqlx.DB) error) error {
	cfg := config.NewFromCLI(cmd)
	server.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	return fn(cfg, db)
}

func migrateUp(_ context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(_ *config.Config, db *sqlx.DB) error {
		return printVersion(db)
	})
}

func migrateDown(_ context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(_ *config.Config, db *sqlx.DB) error {
		if err := database.MigrateDown(db.DB); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return printVersion(db)
	})
}

func migrateStatus(_ context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(_ *config.Config, db *sqlx.DB) error {
		return printVersion(db)
	})
}

func printVersion(db *sqlx.DB) error {
	version, err := database.MigrationVersion(db.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("schema version %d\n", version)
	return nil
}

func promote(ctx context.Context, cmd *cli.Command) error {
	username := cmd.Args().First()
	if username == "" {
		return errors.New("username is required")
	}

	return withDB(cmd, func(cfg *config.Config, db *sqlx.DB) error {
		svc := auth.NewService(repository.New(db), &cfg.Auth)
		user, err := svc.Promote(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to promote %s: %w", username, err)
		}
		fmt.Printf("%s is now an administrator\n", user.Username)
		return nil
	})
}
