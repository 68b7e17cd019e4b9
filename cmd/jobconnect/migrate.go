package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobconnect/internal/db"
)

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.setup()
			if err != nil {
				return err
			}
			defer func() { _ = rt.log.Sync() }()
			if err := rt.cfg.RequireDatabase(); err != nil {
				return err
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			applied, err := database.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}
}
