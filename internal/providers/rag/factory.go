package rag

import (
	"fmt"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/providers/llm"
)

// NewEmbeddingModel builds the embedder described by cfg. The API key falls
// back to the chat provider key when the embedding provider is the same.
func NewEmbeddingModel(cfg *config.RAGConfig, app *config.AppConfig) (*Embedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" && app != nil {
		apiKey = app.APIKeyFor(cfg.Provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" && app != nil {
		switch cfg.Provider {
		case "ollama":
			baseURL = app.OllamaBaseURL
		case "custom":
			baseURL = app.CustomOpenAIBaseURL
		}
	}

	client, err := llm.NewEmbeddingClient(cfg.Provider, baseURL, apiKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return NewEmbedder(NewRemoteModel(client, cfg.Model)).WithTimeout(cfg.Timeout), nil
}
