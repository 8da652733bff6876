package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

const metaSeededKey = "seeded"

type KnowledgeRepo struct {
	db *sql.DB
}

func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// InsertChunks stores all chunks or none. With markSeeded the seeded marker
// is written in the same transaction.
func (r *KnowledgeRepo) InsertChunks(ctx context.Context, chunks []core.KnowledgeChunk, markSeeded bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO knowledge_chunks
			(id, document_id, chunk_index, text, token_size, source, category, metadata, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		vecBlob, err := serializeVector(c.Embedding)
		if err != nil {
			return err
		}

		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}

		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Index, c.Text, c.TokenSize,
			c.Source, c.Category, string(meta), vecBlob, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	if markSeeded {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO knowledge_meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			metaSeededKey, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to mark knowledge seeded: %w", err)
		}
	}

	return tx.Commit()
}

// Search scores every stored chunk by cosine similarity and returns the
// best k. Equal scores keep insertion order.
func (r *KnowledgeRepo) Search(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, text, token_size, source, category, metadata, embedding, created_at
		FROM knowledge_chunks
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}
	defer rows.Close()

	var results []core.ScoredChunk
	skipped := 0
	for rows.Next() {
		var c core.KnowledgeChunk
		var meta string
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Text, &c.TokenSize,
			&c.Source, &c.Category, &meta, &blob, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		emb, err := deserializeVector(blob)
		if err != nil {
			return nil, err
		}
		if len(emb) != len(vector) {
			skipped++
			continue
		}

		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
			}
		}

		results = append(results, core.ScoredChunk{
			Chunk: c,
			Score: cosineSimilarity(vector, emb),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		log.FromCtx(ctx).Warn().
			Int("skipped", skipped).
			Int("dims", len(vector)).
			Msg("chunks with mismatched embedding dimensions ignored")
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (r *KnowledgeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func (r *KnowledgeRepo) IsSeeded(ctx context.Context) (bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM knowledge_meta WHERE key = ?`, metaSeededKey).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read seeded marker: %w", err)
	}
	return true, nil
}

func (r *KnowledgeRepo) Stats(ctx context.Context) (core.KnowledgeStats, error) {
	stats := core.KnowledgeStats{
		Categories:     []string{},
		CategoryCounts: map[string]int{},
		Sources:        []string{},
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT document_id) FROM knowledge_chunks`,
	).Scan(&stats.TotalChunks, &stats.TotalDocuments); err != nil {
		return stats, fmt.Errorf("failed to count knowledge: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM knowledge_chunks GROUP BY category ORDER BY category`)
	if err != nil {
		return stats, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return stats, err
		}
		stats.Categories = append(stats.Categories, cat)
		stats.CategoryCounts[cat] = n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	srcRows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT source FROM knowledge_chunks ORDER BY source`)
	if err != nil {
		return stats, fmt.Errorf("failed to query sources: %w", err)
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var src string
		if err := srcRows.Scan(&src); err != nil {
			return stats, err
		}
		stats.Sources = append(stats.Sources, src)
	}

	return stats, srcRows.Err()
}
