package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

type providerChoice struct {
	id    string
	label string
	model string
}

var providerChoices = []providerChoice{
	{id: "openai", label: "OpenAI", model: "gpt-4o-mini"},
	{id: "anthropic", label: "Anthropic", model: "claude-3-5-haiku-latest"},
	{id: "openrouter", label: "OpenRouter", model: "openai/gpt-4o-mini"},
	{id: "ollama", label: "Ollama", model: "llama3.1"},
	{id: "custom", label: "Custom OpenAI-compatible", model: ""},
}

// ProviderStep allows selection of the AI provider
type ProviderStep struct {
	cursor int
}

func NewProviderStep() Step {
	return &ProviderStep{}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var done bool
	s.cursor, done = moveCursor(msg, s.cursor, len(providerChoices))
	if !done {
		return s, nil
	}

	choice := providerChoices[s.cursor]
	state.App.Provider = choice.id
	state.App.Model = choice.model
	return nil, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	labels := make([]string, len(providerChoices))
	for i, c := range providerChoices {
		labels[i] = c.label
	}
	return renderChoices("Select your AI Provider:", labels, s.cursor)
}
