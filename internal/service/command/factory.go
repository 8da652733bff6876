package command

import (
	"github.com/sandevgo/gtmsuite/internal/core"
)

func NewCommands(sessions Resetter, knowledge StatsSource) []core.Command {
	return []core.Command{
		NewResetCommand(sessions),
		NewStatsCommand(knowledge),
	}
}
