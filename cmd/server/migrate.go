package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withGateway(func(ctx context.Context, gw *database.Gateway, cmd *cobra.Command) error {
				results, err := database.Migrate(ctx, gw)
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %d %s (%s)\n", r.Source.Version, r.Source.Path, r.Duration.Round(time.Millisecond))
				}
				if err == nil && len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				}
				return err
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: withGateway(func(ctx context.Context, gw *database.Gateway, cmd *cobra.Command) error {
				r, err := database.MigrateDown(ctx, gw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d %s\n", r.Source.Version, r.Source.Path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: withGateway(func(ctx context.Context, gw *database.Gateway, cmd *cobra.Command) error {
				statuses, err := database.MigrationStatus(ctx, gw)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					applied := "pending"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-8d %-10s %s\n", s.Source.Version, s.State, applied)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withGateway(func(ctx context.Context, gw *database.Gateway, cmd *cobra.Command) error {
				v, err := database.MigrationVersion(ctx, gw)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}),
		},
	)
	return cmd
}

func withGateway(fn func(context.Context, *database.Gateway, *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg.Log)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		gw, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer gw.Close()
		return fn(ctx, gw, cmd)
	}
}
