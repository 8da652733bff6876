package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GTM_RUNTIME_PATH", "")

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:3000", "https://gtm-synergy-suite.vercel.app"}, cfg.CORSOrigins)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, filepath.Join(home, ".gtmsuite"), cfg.GetRuntimePath())
	assert.Equal(t, filepath.Join(home, ".gtmsuite", "gtmsuite.db"), cfg.GetDatabasePath())
	assert.False(t, cfg.IsTelegramSelected())
}

func TestNewAppConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GTM_RUNTIME_PATH", dir)
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CONTEXT_WINDOW_SIZE", "6")

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, dir, cfg.GetRuntimePath())
	assert.Equal(t, "sk-ant", cfg.APIKeyFor(cfg.Provider))
	assert.Equal(t, "", cfg.APIKeyFor("unknown"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 6, cfg.GetContextWindowSize())
}

func TestNewRAGConfig_Defaults(t *testing.T) {
	cfg := NewRAGConfig(context.Background())
	require.NotNil(t, cfg)

	assert.Equal(t, "text-embedding-3-small", cfg.Model)
	assert.Equal(t, 250, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, 200, cfg.PreviewLength)
}

func TestNewAgentsConfig_Defaults(t *testing.T) {
	cfg := NewAgentsConfig(context.Background())

	assert.InDelta(t, 0.2, cfg.AskGTMTemperature, 1e-9)
	assert.InDelta(t, 0.3, cfg.DealSenseTemperature, 1e-9)
	assert.InDelta(t, 0.7, cfg.OutreachTemperature, 1e-9)
	assert.InDelta(t, 0.1, cfg.OutreachVariantStep, 1e-9)
	assert.Equal(t, 5, cfg.OutreachMaxVariants)
}

func TestGetRuntimePath_Absolute(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GTM_RUNTIME_PATH", dir)
	assert.Equal(t, dir, GetRuntimePath())
}
