package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message, opts ChatOptions) (Message, error)
}

type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

// Embedder turns texts into vectors. Query and passage encodings may differ
// for asymmetric models (e5 style prefixes).
type Embedder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
	EncodePassages(ctx context.Context, texts []string) ([][]float32, error)
}
