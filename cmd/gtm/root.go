package main

import (
	"context"
	"io"
	"os"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/ui"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:     "gtm",
	Short:   core.SuiteName + " (AskGTM, DealSense, OutreachAI)",
	Long:    `AI assistants for go-to-market teams: knowledge base Q&A, deal scoring and outreach drafting.`,
	Version: core.SuiteVersion,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return setupLoggerTo(ctx, os.Stdout)
}

func setupLoggerTo(ctx context.Context, out io.Writer) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithWriter(ctx, out, isDebug)
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | StyleFlag}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
