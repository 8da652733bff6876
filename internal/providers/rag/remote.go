package rag

import (
	"context"
	"fmt"
	"strings"
)

// BatchEmbedder is an embeddings endpoint, see llm.OpenAICompatible.
type BatchEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// RemoteModel encodes text through a hosted embeddings API.
type RemoteModel struct {
	client        BatchEmbedder
	name          string
	queryPrefix   string
	passagePrefix string
}

func NewRemoteModel(client BatchEmbedder, name string) *RemoteModel {
	m := &RemoteModel{client: client, name: name}

	// E5 family models are trained with instruction prefixes
	if strings.Contains(strings.ToLower(name), "e5") {
		m.queryPrefix = "query: "
		m.passagePrefix = "passage: "
	}
	return m
}

func (m *RemoteModel) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	embs, err := m.client.Embed(ctx, []string{m.queryPrefix + text})
	if err != nil {
		return nil, err
	}
	if len(embs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embs))
	}
	return embs[0], nil
}

func (m *RemoteModel) EncodePassages(ctx context.Context, texts []string) ([][]float32, error) {
	if m.passagePrefix == "" {
		return m.client.Embed(ctx, texts)
	}

	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = m.passagePrefix + t
	}
	return m.client.Embed(ctx, prefixed)
}

func (m *RemoteModel) GetModelName() string {
	return m.name
}

func (m *RemoteModel) Shutdown() error {
	return nil
}
