package main

import (
	"fmt"

	"github.com/learnpath/datasim/internal/models"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, logger, err := setup()
			if err != nil {
				return err
			}

			if err := db.AutoMigrate(models.AllTables()...); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("schema migrated", "tables", len(models.AllTables()))
			return nil
		},
	}
}
