package rag

import (
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/gtmsuite/internal/core"
)

// ChunkDocuments splits every document and tags each chunk with the
// metadata of its parent. Empty documents produce nothing.
func ChunkDocuments(docs []core.Document, cfg ChunkerConfig) ([]core.KnowledgeChunk, error) {
	now := time.Now().UTC()

	var out []core.KnowledgeChunk
	for _, doc := range docs {
		pieces, err := ChunkText(doc.Text, cfg)
		if err != nil {
			return nil, err
		}
		if len(pieces) == 0 {
			continue
		}

		docID := uuid.NewString()
		source := metaOr(doc.Metadata, core.MetaSource, core.DefaultSource)
		category := metaOr(doc.Metadata, core.MetaCategory, core.DefaultCategory)

		for _, p := range pieces {
			meta := make(map[string]string, len(doc.Metadata))
			for k, v := range doc.Metadata {
				meta[k] = v
			}

			out = append(out, core.KnowledgeChunk{
				ID:         uuid.NewString(),
				DocumentID: docID,
				Index:      p.Index,
				Text:       p.Text,
				TokenSize:  p.TokenSize,
				Source:     source,
				Category:   category,
				Metadata:   meta,
				CreatedAt:  now,
			})
		}
	}
	return out, nil
}

func metaOr(meta map[string]string, key, def string) string {
	if v := meta[key]; v != "" {
		return v
	}
	return def
}
