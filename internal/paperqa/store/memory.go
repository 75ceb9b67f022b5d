package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/paperqa-io/paperqa/internal/model"
)

// MemoryStore is an in-memory VectorStore. It performs exact L2 search and is
// intended for tests and local development without a Milvus instance.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	nextID      int64
}

type memoryCollection struct {
	config *CollectionConfig
	chunks []*memoryChunk
}

type memoryChunk struct {
	id    int64
	chunk *Chunk
}

var _ VectorStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		nextID:      1,
	}
}

// EnsureCollection creates the collection if it does not exist.
func (s *MemoryStore) EnsureCollection(_ context.Context, config *CollectionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[config.Name]; ok {
		return nil
	}
	s.collections[config.Name] = &memoryCollection{config: config}
	return nil
}

// Insert stores chunks and returns sequentially assigned IDs.
func (s *MemoryStore) Insert(_ context.Context, collection string, chunks []*Chunk) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	ids := make([]int64, len(chunks))
	for i, chunk := range chunks {
		if coll.config.Dimension > 0 && len(chunk.Embedding) != coll.config.Dimension {
			return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(chunk.Embedding), coll.config.Dimension)
		}
		id := s.nextID
		s.nextID++
		coll.chunks = append(coll.chunks, &memoryChunk{id: id, chunk: chunk})
		ids[i] = id
	}
	return ids, nil
}

// Search returns the topK nearest chunks by L2 distance, ascending.
func (s *MemoryStore) Search(_ context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	results := make([]*SearchResult, 0, len(coll.chunks))
	for _, mc := range coll.chunks {
		results = append(results, &SearchResult{
			ID: mc.id,
			Chunk: model.Chunk{
				Text:           mc.chunk.Text,
				SourceDocument: mc.chunk.SourceDocument,
				PageNumber:     mc.chunk.PageNumber,
				ChunkIndex:     mc.chunk.ChunkIndex,
			},
			Score: l2Distance(embedding, mc.chunk.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *MemoryStore) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	return int64(len(coll.chunks)), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func l2Distance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
