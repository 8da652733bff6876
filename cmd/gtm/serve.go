package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/gtmsuite/pkg/log"
	"github.com/sandevgo/gtmsuite/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (and the Telegram bot when enabled)",
	Long:  `Initializes storage, seeds the knowledge base on first run and serves the JSON API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting gtm synergy suite")

		s, err := newSuite(ctx)
		if err != nil {
			return err
		}

		services, err := s.services(ctx)
		if err != nil {
			s.close(ctx)
			return err
		}

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("gtm synergy suite has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
