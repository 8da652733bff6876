package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	path  string
	force bool
	err   error
	saved bool
}

func NewSaveEnvStep(path string, force bool) Step {
	return &SaveEnvStep{path: path, force: force}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return nil
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if err := WriteEnv(s.path, state, s.force); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}
