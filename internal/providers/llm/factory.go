package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

// Provider is a chat client that can also list its models.
type Provider interface {
	core.AIProvider
	core.ModelLister
}

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model), nil
	case "custom":
		if cfg.CustomOpenAIBaseURL == "" {
			return nil, fmt.Errorf("custom provider requires CUSTOM_OPENAI_BASE_URL")
		}
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// NewEmbeddingClient returns an OpenAI-compatible client for the
// /v1/embeddings endpoint of the given provider. Anthropic has no
// embeddings API and is rejected.
func NewEmbeddingClient(provider, baseURL, apiKey, model string) (*OpenAICompatible, error) {
	cfg := OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}

	switch provider {
	case "openai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = openAIBaseURL
		}
	case "openrouter":
		if cfg.BaseURL == "" {
			cfg.BaseURL = openRouterBaseURL
		}
		cfg.ExtraHeaders = openRouterHeaders()
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434"
		}
	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom embedding provider requires a base url")
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}

	return NewOpenAICompatible(cfg), nil
}
