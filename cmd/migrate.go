/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/folioworks/portfolio/internal/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := db.MigrateUp(db.PostgresURL(cfg.Database)); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long:  `Rolls back the last --steps migrations, or every migration when --steps is 0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := db.MigrateDown(db.PostgresURL(cfg.Database), migrateDownSteps); err != nil {
			return err
		}
		log.Info().Int("steps", migrateDownSteps).Msg("migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back (0 for all)")
}
