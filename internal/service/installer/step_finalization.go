package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gtmsuite/internal/config"
)

// FinalizationStep computes derived values
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return nil
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	Finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

// Finalize picks an embedding backend that works with the chosen chat
// provider. Anthropic has no embeddings API, so OpenAI stays the default
// and needs its own key.
func Finalize(state *InstallState) {
	switch state.App.Provider {
	case "ollama":
		state.RAG.Provider = "ollama"
		state.RAG.Model = "nomic-embed-text"
		if state.App.OllamaBaseURL != defaultOllamaURL {
			state.RAG.BaseURL = state.App.OllamaBaseURL
		}
	case "openrouter":
		state.RAG.Provider = "openrouter"
		state.RAG.Model = "openai/text-embedding-3-small"
	case "custom":
		state.RAG.Provider = "custom"
		state.RAG.BaseURL = state.App.CustomOpenAIBaseURL
	}

	if !state.App.EnableTelegram {
		state.Telegram = config.TelegramConfig{}
	}
}
