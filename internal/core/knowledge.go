package core

import (
	"context"
	"time"
)

const (
	MetaSource   = "source"
	MetaCategory = "category"

	DefaultSource   = "unknown"
	DefaultCategory = "general"
)

// Document is ingestion input. It is not retained after chunking.
type Document struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type KnowledgeChunk struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Index      int               `json:"index"`
	Text       string            `json:"text"`
	TokenSize  int               `json:"token_size"`
	Source     string            `json:"source"`
	Category   string            `json:"category"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Embedding  []float32         `json:"-"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ScoredChunk struct {
	Chunk KnowledgeChunk `json:"chunk"`
	Score float64        `json:"score"`
}

type SourcePreview struct {
	Content  string `json:"content"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

type QueryResult struct {
	Answer  string          `json:"answer"`
	Sources []SourcePreview `json:"sources"`
}

type KnowledgeStats struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	Categories     []string       `json:"categories"`
	CategoryCounts map[string]int `json:"category_counts"`
	Sources        []string       `json:"sources"`
}

type KnowledgeRepository interface {
	InsertChunks(ctx context.Context, chunks []KnowledgeChunk, markSeeded bool) error
	Search(ctx context.Context, vector []float32, k int) ([]ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	IsSeeded(ctx context.Context) (bool, error)
	Stats(ctx context.Context) (KnowledgeStats, error)
}
