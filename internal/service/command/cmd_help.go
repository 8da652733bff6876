package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/gtmsuite/internal/core"
)

type HelpCommand struct {
	router    core.CmdRouter
	formatter *ResponseFormatter
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	cmds := c.router.ListCommands()
	lines := make([]string, len(cmds))
	for i, cmd := range cmds {
		lines[i] = fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description())
	}

	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(lines),
		c.formatter.Tip("Anything else is answered from the knowledge base"),
	), nil
}
