/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/internal/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio and blog server",
	Long: `Serves the portfolio site and provides the maintenance commands
around it: migrations, content and user seeding, admin promotion and
a submission event watcher.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the environment and configures logging for a command.
func loadConfig() config.Config {
	cfg := config.LoadConfig()
	logger.Setup(cfg.LogLevel, cfg.Debug)
	return cfg
}
