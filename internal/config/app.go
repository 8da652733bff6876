package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"GTM_RUNTIME_PATH" envDefault:".gtmsuite"`

	// LLM provider selection
	Provider            string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model               string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	// HTTP transport
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8000"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,https://gtm-synergy-suite.vercel.app"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Context Management
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"20"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "gtmsuite.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetContextWindowSize() int {
	return c.ContextWindowSize
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

// APIKeyFor returns the configured key of the given provider.
func (c AppConfig) APIKeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "openrouter":
		return c.OpenRouterAPIKey
	case "ollama":
		return c.OllamaAPIKey
	case "custom":
		return c.CustomOpenAIAPIKey
	default:
		return ""
	}
}
