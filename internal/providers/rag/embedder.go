package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/gtmsuite/pkg/log"
)

const (
	defaultEmbedTimeout = 30 * time.Second
	defaultBatchSize    = 32
)

// DualEncoder embeds search queries and stored passages. Some models expect
// different instructions for each side.
type DualEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
	EncodePassages(ctx context.Context, texts []string) ([][]float32, error)
	Shutdown() error
}

type Embedder struct {
	model     DualEncoder
	timeout   time.Duration
	batchSize int
}

func NewEmbedder(model DualEncoder) *Embedder {
	return &Embedder{
		model:     model,
		timeout:   defaultEmbedTimeout,
		batchSize: defaultBatchSize,
	}
}

// WithTimeout sets the deadline applied to every model call.
func (e *Embedder) WithTimeout(d time.Duration) *Embedder {
	if d > 0 {
		e.timeout = d
	}
	return e
}

func (e *Embedder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	emb, err := e.model.EncodeQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	return emb, nil
}

// EncodePassages embeds texts in batches. The result is index-aligned with texts.
func (e *Embedder) EncodePassages(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	size := e.batchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))

		log.FromCtx(ctx).Debug().
			Int("from", start).
			Int("to", end).
			Msg("embedding passages")

		embs, err := e.encodeBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", start, err)
		}
		if len(embs) != end-start {
			return nil, fmt.Errorf("failed to embed chunk %d: expected %d embeddings, got %d", start, end-start, len(embs))
		}
		out = append(out, embs...)
	}

	return out, nil
}

func (e *Embedder) encodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.model.EncodePassages(ctx, texts)
}

func (e *Embedder) Shutdown() error {
	return e.model.Shutdown()
}
