/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os/signal"
	"syscall"

	"github.com/folioworks/portfolio/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the portfolio web server",
	Long: `Starts the portfolio web server. Usage:

	portfolio server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			_ = srv.Shutdown()
			return err
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return srv.Shutdown()
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

