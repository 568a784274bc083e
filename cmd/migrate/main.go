package main

// Run database migrations:
//   go run ./cmd/migrate          # up
//   go run ./cmd/migrate down     # revert the latest migration
//   go run ./cmd/migrate status   # print the applied version

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"resume-service/internal/shared/config"
	"resume-service/internal/shared/storage/db"
	"resume-service/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := run(ctx, command, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, sqlDB *sql.DB) error {
	switch command {
	case "up":
		return db.RunMigrations(ctx, sqlDB)
	case "down":
		return db.RollbackMigration(ctx, sqlDB)
	case "status":
		version, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			return err
		}
		telemetry.Info("migrate.status", map[string]any{"version": version})
		return nil
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}
}
