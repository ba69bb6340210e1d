package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pinboard.app/api/common/logger"
	"pinboard.app/api/core/config"
	"pinboard.app/api/core/db"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the embedded pinboard schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.ServiceTypeMigrate)
			if err != nil {
				return err
			}
			logger.Setup(cfg)
			if dsn == "" {
				dsn = cfg.DB.DSN
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database url (defaults to DATABASE_URL)")

	for _, c := range []struct {
		direction db.MigrateDirection
		short     string
	}{
		{db.MigrateUp, "Apply all pending migrations"},
		{db.MigrateDown, "Roll back the most recent migration"},
		{db.MigrateStatus, "Print the applied state of each migration"},
	} {
		root.AddCommand(&cobra.Command{
			Use:   string(c.direction),
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := db.Migrate(cmd.Context(), dsn, c.direction); err != nil {
					slog.ErrorContext(cmd.Context(), "migration failed", "direction", c.direction, "error", err)
					return fmt.Errorf("migrate %s: %w", c.direction, err)
				}
				slog.InfoContext(cmd.Context(), "migration finished", "direction", c.direction)
				return nil
			},
		})
	}

	return root
}
