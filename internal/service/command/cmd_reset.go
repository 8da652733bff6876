package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/gtmsuite/internal/core"
)

type Resetter interface {
	Reset(ctx context.Context, sessionID string) error
}

type ResetCommand struct {
	sessions  Resetter
	formatter *ResponseFormatter
}

func NewResetCommand(sessions Resetter) *ResetCommand {
	return &ResetCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget the conversation history of this chat"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.sessions.Reset(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to reset conversation: %w", err)
	}
	return c.formatter.Success("Conversation reset"), nil
}

var _ core.Command = (*ResetCommand)(nil)
