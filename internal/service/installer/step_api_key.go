package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects provider-specific API keys (optional for Ollama and custom endpoints)
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.App.Provider
	s.isOptional = false

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case "anthropic":
		s.title = "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
	case "openai":
		s.title = "OpenAI API Key"
		s.input.Placeholder = "sk-..."
	case "openrouter":
		s.title = "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
	case "ollama", "custom":
		s.title = "API Key"
		s.isOptional = true
		s.input.Placeholder = "Optional - press Enter to skip"
	default:
		return false
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.isOptional {
			return s, cmd
		}
		setAPIKey(state, s.provider, val)
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.provider == "" {
		return "Loading...\n"
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}

func setAPIKey(state *InstallState, provider, key string) {
	switch provider {
	case "openai":
		state.App.OpenAIAPIKey = key
	case "anthropic":
		state.App.AnthropicAPIKey = key
	case "openrouter":
		state.App.OpenRouterAPIKey = key
	case "ollama":
		state.App.OllamaAPIKey = key
	case "custom":
		state.App.CustomOpenAIAPIKey = key
	}
}
