package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/paperqa-io/paperqa/internal/paperqa/store"
)

// Embedder generates embedding vectors for text.
type Embedder interface {
	// Embed returns one embedding per input text, index-aligned.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedSingle returns the embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// RetrieverConfig configures similarity search.
type RetrieverConfig struct {
	// TopK is the number of chunks to retrieve.
	TopK int
	// Collection is the vector collection name.
	Collection string
}

// Retriever embeds questions and finds the most similar chunks.
type Retriever struct {
	store    store.VectorStore
	embedder Embedder
	config   *RetrieverConfig
}

// NewRetriever creates a retriever.
func NewRetriever(vectorStore store.VectorStore, embedder Embedder, config *RetrieverConfig) *Retriever {
	return &Retriever{
		store:    vectorStore,
		embedder: embedder,
		config:   config,
	}
}

// Retrieve embeds the question and returns the topK nearest chunks,
// ordered by descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]*store.SearchResult, error) {
	embedding, err := r.embedder.EmbedSingle(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	results, err := r.store.Search(ctx, r.config.Collection, embedding, r.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	logger.Infof("Retrieved %d chunk(s) for question (top_k=%d)", len(results), r.config.TopK)
	return results, nil
}
