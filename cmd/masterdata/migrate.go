package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/database"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQLite schema",
		Long: `Apply, roll back or list the embedded SQLite migrations.

Only the sqlite database driver has a schema; the badger and memory
drivers need no migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts.configPath, func(ctx context.Context, db *database.DB) error {
				if err := db.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts.configPath, func(ctx context.Context, db *database.DB) error {
				if err := db.MigrateDown(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts.configPath, func(ctx context.Context, db *database.DB) error {
				applied, pending, err := db.GetMigrationStatus(ctx)
				if err != nil {
					return err
				}
				return printMigrationStatus(cmd.OutOrStdout(), applied, pending)
			})
		},
	})

	return cmd
}

// withDatabase loads the config, opens the SQLite database without
// migrating it and runs fn.
func withDatabase(ctx context.Context, configPath string, fn func(context.Context, *database.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Database.Driver != config.DriverSQLite {
		return fmt.Errorf("migrations apply only to the %s driver, not %q", config.DriverSQLite, cfg.Database.Driver)
	}

	db, err := database.Open(database.ConfigFrom(cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return fn(ctx, db)
}

func printMigrationStatus(out io.Writer, applied []database.MigrationRecord, pending []database.Migration) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tDETAIL")
	for _, m := range applied {
		fmt.Fprintf(tw, "%s\tapplied\t%s\n", m.Version, m.AppliedAt.UTC().Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(tw, "%s\tpending\t%s\n", m.Version, m.Name)
	}
	return tw.Flush()
}
