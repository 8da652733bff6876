package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
)

type Router struct {
	commands map[string]core.Command
}

// New registers commands plus a built-in /help.
func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	c.commands["help"] = &HelpCommand{router: c, formatter: NewResponseFormatter()}
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	// Telegram appends the bot name in groups: /stats@gtm_bot
	name, _, _ := strings.Cut(strings.TrimPrefix(parts[0], "/"), "@")
	name = strings.ToLower(name)
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return NewResponseFormatter().Error(name, err), true
	}
	return result, true
}

// ListCommands returns commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
