package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

var channelChoices = []string{"HTTP API only", "HTTP API + Telegram bot"}

// ChannelStep decides whether the Telegram front-end is enabled
type ChannelStep struct {
	cursor int
}

func NewChannelStep() Step {
	return &ChannelStep{}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var done bool
	s.cursor, done = moveCursor(msg, s.cursor, len(channelChoices))
	if !done {
		return s, nil
	}
	state.App.EnableTelegram = s.cursor == 1
	return nil, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return renderChoices("How will you talk to AskGTM?", channelChoices, s.cursor)
}
