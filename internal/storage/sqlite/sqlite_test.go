package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*KnowledgeRepo, *ConversationsRepo) {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewKnowledgeRepo(db), NewConversationsRepo(db)
}

func chunk(id, doc, source, category string, emb ...float32) core.KnowledgeChunk {
	return core.KnowledgeChunk{
		ID:         id,
		DocumentID: doc,
		Text:       "text of " + id,
		Source:     source,
		Category:   category,
		Metadata:   map[string]string{"source": source},
		Embedding:  emb,
	}
}

func TestKnowledgeRepo_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestDB(t)

	err := repo.InsertChunks(ctx, []core.KnowledgeChunk{
		chunk("pricing", "d1", "pricing", "sales", 1, 0, 0),
		chunk("icp", "d2", "icp", "marketing", 0, 1, 0),
		chunk("pricing-2", "d1", "pricing", "sales", 0.9, 0.1, 0),
		chunk("tie", "d3", "faq", "support", 1, 0, 0),
	}, false)
	require.NoError(t, err)

	got, err := repo.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ties keep insertion order
	assert.Equal(t, "pricing", got[0].Chunk.ID)
	assert.Equal(t, "tie", got[1].Chunk.ID)
	assert.Equal(t, "pricing-2", got[2].Chunk.ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.Equal(t, "pricing", got[0].Chunk.Metadata["source"])
	assert.Equal(t, "text of pricing", got[0].Chunk.Text)

	all, err := repo.Search(ctx, []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "icp", all[0].Chunk.ID)
}

func TestKnowledgeRepo_SearchEmpty(t *testing.T) {
	repo, _ := newTestDB(t)

	got, err := repo.Search(context.Background(), []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKnowledgeRepo_SearchSkipsMismatchedDims(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestDB(t)

	require.NoError(t, repo.InsertChunks(ctx, []core.KnowledgeChunk{
		chunk("old", "d1", "a", "b", 1, 0),
		chunk("new", "d2", "a", "b", 1, 0, 0),
	}, false))

	got, err := repo.Search(ctx, []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Chunk.ID)
}

func TestKnowledgeRepo_InsertIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestDB(t)

	err := repo.InsertChunks(ctx, []core.KnowledgeChunk{
		chunk("a", "d1", "s", "c", 1),
		chunk("a", "d1", "s", "c", 1),
	}, true)
	require.Error(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seeded, err := repo.IsSeeded(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestKnowledgeRepo_SeededMarker(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestDB(t)

	seeded, err := repo.IsSeeded(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, repo.InsertChunks(ctx, []core.KnowledgeChunk{chunk("a", "d1", "s", "c", 1)}, true))

	seeded, err = repo.IsSeeded(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestKnowledgeRepo_Stats(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestDB(t)

	empty, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalChunks)
	assert.Empty(t, empty.Categories)

	require.NoError(t, repo.InsertChunks(ctx, []core.KnowledgeChunk{
		chunk("p1", "d1", "pricing", "sales", 1),
		chunk("p2", "d1", "pricing", "sales", 1),
		chunk("c1", "d2", "competitive", "sales", 1),
		chunk("t1", "d3", "technical", "product", 1),
	}, false))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalChunks)
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, []string{"product", "sales"}, stats.Categories)
	assert.Equal(t, map[string]int{"product": 1, "sales": 3}, stats.CategoryCounts)
	assert.Equal(t, []string{"competitive", "pricing", "technical"}, stats.Sources)
}

func TestConversationsRepo(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AddTurn(ctx, "s1", core.Turn{
			Question:  fmt.Sprintf("q%d", i),
			Answer:    fmt.Sprintf("a%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.AddTurn(ctx, "s2", core.Turn{Question: "other", Answer: "x"}))

	turns, err := repo.GetTurns(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "q2", turns[0].Question)
	assert.Equal(t, "q4", turns[2].Question)
	assert.Equal(t, "a4", turns[2].Answer)
	assert.True(t, turns[2].CreatedAt.Equal(base.Add(4*time.Minute)))

	require.NoError(t, repo.DeleteSession(ctx, "s1"))

	turns, err = repo.GetTurns(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)

	other, err := repo.GetTurns(ctx, "s2", 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3}
	blob, err := serializeVector(in)
	require.NoError(t, err)

	out, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = deserializeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"mismatched", []float32{1}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
