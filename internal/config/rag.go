package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

type RAGConfig struct {
	Provider string        `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	Model    string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	BaseURL  string        `env:"EMBEDDING_BASE_URL"`
	APIKey   string        `env:"EMBEDDING_API_KEY"`
	Timeout  time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"30s"`

	ChunkSize     int `env:"CHUNK_SIZE_TOKENS" envDefault:"250"`
	ChunkOverlap  int `env:"CHUNK_OVERLAP_TOKENS" envDefault:"50"`
	TopK          int `env:"RETRIEVAL_TOP_K" envDefault:"4"`
	PreviewLength int `env:"SOURCE_PREVIEW_CHARS" envDefault:"200"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		log.FromCtx(ctx).Fatal().
			Int("chunk_size", cfg.ChunkSize).
			Int("chunk_overlap", cfg.ChunkOverlap).
			Msg("chunk overlap must be smaller than chunk size")
	}
	return cfg
}
