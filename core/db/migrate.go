package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// MigrateDirection selects which goose command Migrate runs.
type MigrateDirection string

const (
	MigrateUp     MigrateDirection = "up"
	MigrateDown   MigrateDirection = "down"
	MigrateStatus MigrateDirection = "status"
)

// Migrate runs the embedded goose migrations against dsn.
func Migrate(ctx context.Context, dsn string, direction MigrateDirection) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	switch direction {
	case MigrateUp:
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("running migrations (%s): %w", direction, err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", "pinboard.db.migrate")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "pinboard.db.migrate")
}
