package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/providers/rag"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

// Store is the similarity-searchable knowledge index. Searches run
// concurrently, inserts are exclusive.
type Store struct {
	mu       sync.RWMutex
	repo     core.KnowledgeRepository
	embedder core.Embedder
	chunkCfg rag.ChunkerConfig
}

func NewStore(repo core.KnowledgeRepository, embedder core.Embedder, chunkCfg rag.ChunkerConfig) *Store {
	return &Store{
		repo:     repo,
		embedder: embedder,
		chunkCfg: chunkCfg,
	}
}

// Initialize seeds the built-in documents into a brand new index. It is a
// no-op once the index has been seeded or holds any chunk.
func (s *Store) Initialize(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	seeded, err := s.repo.IsSeeded(ctx)
	if err != nil {
		return err
	}
	if seeded {
		logger.Debug().Msg("knowledge index already seeded")
		return nil
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info().Int("chunks", n).Msg("knowledge index not empty, skipping seed")
		return nil
	}

	docs, err := SeedDocuments()
	if err != nil {
		return err
	}

	chunks, err := rag.ChunkDocuments(docs, s.chunkCfg)
	if err != nil {
		return fmt.Errorf("failed to chunk seed documents: %w", err)
	}
	if err := s.embedChunks(ctx, chunks); err != nil {
		return err
	}
	if err := s.repo.InsertChunks(ctx, chunks, true); err != nil {
		return fmt.Errorf("failed to store seed chunks: %w", err)
	}

	logger.Info().
		Int("documents", len(docs)).
		Int("chunks", len(chunks)).
		Msg("knowledge index seeded")
	return nil
}

// Insert embeds every chunk and stores them all, or stores nothing.
func (s *Store) Insert(ctx context.Context, chunks []core.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	// Embedding is a network call and happens outside the lock
	if err := s.embedChunks(ctx, chunks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.InsertChunks(ctx, chunks, false); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	return nil
}

// Ingest chunks docs and inserts them. It returns the number of chunks stored.
func (s *Store) Ingest(ctx context.Context, docs []core.Document) (int, error) {
	for i, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			return 0, core.InvalidInput("ingest", "document %d has no text", i)
		}
	}

	chunks, err := rag.ChunkDocuments(docs, s.chunkCfg)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk documents: %w", err)
	}
	if err := s.Insert(ctx, chunks); err != nil {
		return 0, err
	}

	log.FromCtx(ctx).Info().
		Int("documents", len(docs)).
		Int("chunks", len(chunks)).
		Msg("documents ingested")
	return len(chunks), nil
}

// Search returns up to k chunks ordered by descending similarity.
func (s *Store) Search(ctx context.Context, query string, k int) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	n, err := s.repo.Count(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, core.RetrievalError("search", err)
	}
	if n == 0 {
		return nil, nil
	}

	vec, err := s.embedder.EncodeQuery(ctx, query)
	if err != nil {
		return nil, core.RetrievalError("search", core.EmbeddingError("embed query", err))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results, err := s.repo.Search(ctx, vec, k)
	if err != nil {
		return nil, core.RetrievalError("search", err)
	}
	return results, nil
}

func (s *Store) Stats(ctx context.Context) (core.KnowledgeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Stats(ctx)
}

func (s *Store) embedChunks(ctx context.Context, chunks []core.KnowledgeChunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vecs, err := s.embedder.EncodePassages(ctx, texts)
	if err != nil {
		return core.EmbeddingError("embed chunks", err)
	}
	if len(vecs) != len(chunks) {
		return core.EmbeddingError("embed chunks", errors.New("embedding count does not match chunk count"))
	}

	for i := range chunks {
		chunks[i].Embedding = vecs[i]
	}
	return nil
}
