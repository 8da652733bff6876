package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/gtmsuite/internal/transport/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the assistants as MCP tools over stdio",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, os.Stderr)
		defer flushLog()

		s, err := newSuite(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		server := mcp.NewServer(s.ask, s.deals, s.writer, os.Stdin, os.Stdout)
		defer server.Shutdown(ctx)
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
