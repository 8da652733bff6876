package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/dealsense"
	"github.com/sandevgo/gtmsuite/internal/service/ui"
	"github.com/spf13/cobra"
)

var scoreHighRisk bool

var scoreCmd = &cobra.Command{
	Use:          "score <file.csv>",
	Short:        "Score a CRM pipeline export with DealSense",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Logs go to stderr so the table can be piped
		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, os.Stderr)
		defer flushLog()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := dealsense.ParseCSV(f)
		if err != nil {
			return err
		}

		s, err := newSuite(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		scores := dealsense.Scores(s.deals.ScoreRows(ctx, rows))
		if err := ctx.Err(); err != nil {
			return err
		}
		if scoreHighRisk {
			scores = dealsense.HighRisk(scores)
		}

		printScores(cmd.OutOrStdout(), scores)
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreHighRisk, "high-risk", false, "only show high risk deals")
	rootCmd.AddCommand(scoreCmd)
}

func printScores(w io.Writer, scores []core.DealScore) {
	if len(scores) == 0 {
		fmt.Fprintln(w, ui.DescStyle.Render("No deals to show."))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.DescStyle).
		Headers("DEAL", "COMPANY", "VALUE", "CLOSE %", "RISK", "NEXT ACTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(ui.TitleStyle.UnsetMarginBottom())
			}
			if col == 4 && row >= 0 && row < len(scores) {
				if rs, ok := ui.RiskStyles[string(scores[row].RiskLevel)]; ok {
					return style.Inherit(rs)
				}
			}
			return style
		})

	for _, sc := range scores {
		next := ""
		if len(sc.NextActions) > 0 {
			next = sc.NextActions[0]
		}
		if sc.Error != "" {
			next = "error: " + sc.Error
		}
		t.Row(
			sc.DealID,
			sc.CompanyName,
			fmt.Sprintf("$%.0f", sc.DealValue),
			fmt.Sprintf("%.0f", sc.CloseProbability),
			string(sc.RiskLevel),
			truncateCell(next, 48),
		)
	}

	fmt.Fprintln(w, t.Render())
}

func truncateCell(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
