package store

import (
	"context"

	"github.com/paperqa-io/paperqa/internal/model"
)

// Chunk is a document chunk with its embedding, ready for insertion.
type Chunk struct {
	// Text is the chunk content.
	Text string
	// SourceDocument is the filename of the originating PDF.
	SourceDocument string
	// PageNumber is the 1-based page the chunk came from.
	PageNumber int
	// ChunkIndex is the 0-based position of the chunk within its page.
	ChunkIndex int
	// Embedding is the chunk's embedding vector.
	Embedding []float32
}

// SearchResult is a chunk returned from similarity search.
type SearchResult struct {
	// ID is the store-assigned chunk identifier.
	ID int64
	// Chunk holds the chunk text and its metadata.
	Chunk model.Chunk
	// Score is the similarity score (L2 distance, smaller is closer).
	Score float32
}

// CollectionConfig describes a vector collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description is a human readable description.
	Description string
	// Dimension is the embedding vector dimension.
	Dimension int
}

// VectorStore is the vector storage abstraction used by the pipeline.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, config *CollectionConfig) error

	// Insert stores chunks and returns their assigned IDs.
	Insert(ctx context.Context, collection string, chunks []*Chunk) ([]int64, error)

	// Search returns the topK nearest chunks for the embedding,
	// ordered by ascending distance.
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context, collection string) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
