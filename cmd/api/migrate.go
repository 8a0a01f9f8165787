package main

import (
	"fmt"

	"github.com/abduss/accounts/internal/config"
	"github.com/abduss/accounts/internal/logger"
	"github.com/abduss/accounts/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Environment)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			pool, err := storage.NewPostgresPool(ctx, cfg.Postgres, log)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			if status {
				return storage.MigrationStatus(ctx, pool)
			}
			if err := storage.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info("database migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Print migration status instead of applying")

	return cmd
}
