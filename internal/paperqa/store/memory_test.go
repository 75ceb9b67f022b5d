package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/internal/paperqa/store"
)

func newTestCollection(t *testing.T, s *store.MemoryStore, dim int) string {
	t.Helper()
	require.NoError(t, s.EnsureCollection(context.Background(), &store.CollectionConfig{
		Name:      "research_papers",
		Dimension: dim,
	}))
	return "research_papers"
}

func TestMemoryStoreInsertAndCount(t *testing.T) {
	s := store.NewMemoryStore()
	coll := newTestCollection(t, s, 2)
	ctx := context.Background()

	ids, err := s.Insert(ctx, coll, []*store.Chunk{
		{Text: "a", SourceDocument: "x.pdf", PageNumber: 1, ChunkIndex: 0, Embedding: []float32{0, 0}},
		{Text: "b", SourceDocument: "x.pdf", PageNumber: 1, ChunkIndex: 1, Embedding: []float32{1, 1}},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	count, err := s.Count(ctx, coll)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMemoryStoreInsertUnknownCollection(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.Insert(context.Background(), "missing", []*store.Chunk{
		{Text: "a", Embedding: []float32{0}},
	})
	assert.Error(t, err)
}

func TestMemoryStoreInsertDimensionMismatch(t *testing.T) {
	s := store.NewMemoryStore()
	coll := newTestCollection(t, s, 3)
	_, err := s.Insert(context.Background(), coll, []*store.Chunk{
		{Text: "a", Embedding: []float32{0, 1}},
	})
	assert.Error(t, err)
}

func TestMemoryStoreSearchOrdering(t *testing.T) {
	s := store.NewMemoryStore()
	coll := newTestCollection(t, s, 2)
	ctx := context.Background()

	_, err := s.Insert(ctx, coll, []*store.Chunk{
		{Text: "far", SourceDocument: "a.pdf", PageNumber: 1, ChunkIndex: 0, Embedding: []float32{10, 10}},
		{Text: "near", SourceDocument: "b.pdf", PageNumber: 2, ChunkIndex: 1, Embedding: []float32{1, 1}},
		{Text: "nearest", SourceDocument: "c.pdf", PageNumber: 3, ChunkIndex: 2, Embedding: []float32{0.5, 0.5}},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, coll, []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "nearest", results[0].Chunk.Text)
	assert.Equal(t, "near", results[1].Chunk.Text)
	assert.LessOrEqual(t, results[0].Score, results[1].Score)

	assert.Equal(t, "c.pdf", results[0].Chunk.SourceDocument)
	assert.Equal(t, 3, results[0].Chunk.PageNumber)
	assert.Equal(t, 2, results[0].Chunk.ChunkIndex)
}

func TestMemoryStoreSearchTopKClamp(t *testing.T) {
	s := store.NewMemoryStore()
	coll := newTestCollection(t, s, 1)
	ctx := context.Background()

	_, err := s.Insert(ctx, coll, []*store.Chunk{
		{Text: "only", Embedding: []float32{1}},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, coll, []float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStoreEnsureCollectionIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	cfg := &store.CollectionConfig{Name: "research_papers", Dimension: 2}

	require.NoError(t, s.EnsureCollection(ctx, cfg))
	_, err := s.Insert(ctx, cfg.Name, []*store.Chunk{{Text: "a", Embedding: []float32{0, 0}}})
	require.NoError(t, err)

	// Re-ensuring must not drop existing data.
	require.NoError(t, s.EnsureCollection(ctx, cfg))
	count, err := s.Count(ctx, cfg.Name)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
