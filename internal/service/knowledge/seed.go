package knowledge

import (
	_ "embed"
	"fmt"

	"github.com/sandevgo/gtmsuite/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Documents []struct {
		Source   string `yaml:"source"`
		Category string `yaml:"category"`
		Content  string `yaml:"content"`
	} `yaml:"documents"`
}

// SeedDocuments returns the built-in bootstrap corpus.
func SeedDocuments() ([]core.Document, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed documents: %w", err)
	}

	docs := make([]core.Document, 0, len(f.Documents))
	for _, d := range f.Documents {
		docs = append(docs, core.Document{
			Text: d.Content,
			Metadata: map[string]string{
				core.MetaSource:   d.Source,
				core.MetaCategory: d.Category,
			},
		})
	}
	return docs, nil
}
