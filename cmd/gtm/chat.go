package main

import (
	"io"
	"os"
	"os/signal"

	"github.com/sandevgo/gtmsuite/internal/transport/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:          "chat",
	Short:        "Chat with AskGTM in the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// The TUI owns the terminal; logs only go out in debug mode
		out := io.Discard
		if debug {
			out = os.Stderr
		}
		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, out)
		defer flushLog()

		s, err := newSuite(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		return tui.Run(ctx, s.ask, s.router)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
