package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/saucebox/internal/config"
	"github.com/totegamma/saucebox/internal/infra/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}
			setupLogger(cfg.Server.Log)

			db, err := database.NewPostgres(cfg.Server.PostgresDsn)
			if err != nil {
				return errors.Wrap(err, "failed to connect database")
			}

			err = database.Migrate(db)
			if err != nil {
				return errors.Wrap(err, "failed to migrate database")
			}

			slog.Info("migration finished", slog.String("module", "cli"))
			return nil
		},
	}
}
