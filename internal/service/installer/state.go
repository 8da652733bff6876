package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/pkg/env"
)

// InstallState collects the answers of the wizard. Zero fields are left
// out of the generated .env so their defaults apply.
type InstallState struct {
	App      config.AppConfig
	RAG      config.RAGConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

// Render builds the .env content.
func (s *InstallState) Render() (string, error) {
	sections := []struct {
		title string
		cfg   any
	}{
		{"LLM provider and transports", &s.App},
		{"Knowledge base", &s.RAG},
		{"Telegram", &s.Telegram},
	}

	var b strings.Builder
	b.WriteString("# GTM Synergy Suite configuration\n")
	for _, sec := range sections {
		content, err := env.MarshalEnv(sec.cfg)
		if err != nil {
			return "", fmt.Errorf("failed to marshal %s: %w", sec.title, err)
		}
		if content == "" {
			continue
		}
		b.WriteString("\n# " + sec.title + "\n")
		b.WriteString(content)
	}
	return b.String(), nil
}

// WriteEnv writes the rendered state to path. An existing file is kept
// unless force is set.
func WriteEnv(path string, state *InstallState, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf(".env file already exists at %s", path)
	}

	content, err := state.Render()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}
