package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/gtmsuite/internal/core"
)

type StatsSource interface {
	Stats(ctx context.Context) (core.KnowledgeStats, error)
}

type StatsCommand struct {
	knowledge StatsSource
	formatter *ResponseFormatter
}

func NewStatsCommand(knowledge StatsSource) *StatsCommand {
	return &StatsCommand{
		knowledge: knowledge,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show knowledge base statistics"
}

func (c *StatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	stats, err := c.knowledge.Stats(ctx)
	if err != nil {
		return "", err
	}

	if stats.TotalChunks == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Knowledge Base"),
			c.formatter.Label("Status", "empty"),
			c.formatter.Tip("Add documents with `gtm ingest` or POST /askgtm/add-document"),
		), nil
	}

	categories := make([]string, len(stats.Categories))
	for i, cat := range stats.Categories {
		categories[i] = fmt.Sprintf("**%s** (%d)", cat, stats.CategoryCounts[cat])
	}

	return c.formatter.Combine(
		c.formatter.Info("Knowledge Base"),
		c.formatter.Label("Documents", strconv.Itoa(stats.TotalDocuments)),
		c.formatter.Label("Chunks", strconv.Itoa(stats.TotalChunks)),
		c.formatter.Label("Sources", strconv.Itoa(len(stats.Sources))),
		"\n",
		c.formatter.List(categories),
	), nil
}
