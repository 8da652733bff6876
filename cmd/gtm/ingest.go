package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/gtmsuite/internal/service/knowledge"
	"github.com/sandevgo/gtmsuite/internal/service/ui"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:          "ingest <file.json>",
	Short:        "Add documents to the knowledge base",
	Long:         `Reads a JSON array of {"content": "...", "metadata": {...}} objects, chunks and embeds them.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		docs, err := knowledge.DecodeDocuments(f)
		if err != nil {
			return err
		}

		s, err := newSuite(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		n, err := s.store.Ingest(ctx, docs)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.UsageStyle.Render(
			fmt.Sprintf("Ingested %d documents as %d chunks", len(docs), n)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
