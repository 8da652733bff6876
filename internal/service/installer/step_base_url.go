package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultOllamaURL = "http://localhost:11434"

// BaseURLStep asks for the server address of Ollama or a custom
// OpenAI-compatible endpoint. Other providers skip it.
type BaseURLStep struct {
	input    textinput.Model
	provider string
}

func NewBaseURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Width = 50
	return &BaseURLStep{input: ti}
}

func (s *BaseURLStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *BaseURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.provider = state.App.Provider
	switch s.provider {
	case "ollama":
		s.input.Placeholder = defaultOllamaURL
	case "custom":
		s.input.Placeholder = "https://api.example.com"
	default:
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimRight(strings.TrimSpace(s.input.Value()), "/")
		switch {
		case s.provider == "ollama":
			if val == "" {
				val = defaultOllamaURL
			}
			state.App.OllamaBaseURL = val
			return nil, nil
		case val != "":
			state.App.CustomOpenAIBaseURL = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *BaseURLStep) View(state *InstallState) string {
	title := "Enter Ollama Base URL:"
	if s.provider == "custom" {
		title = "Enter Custom OpenAI Base URL:"
	}
	return title + "\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
