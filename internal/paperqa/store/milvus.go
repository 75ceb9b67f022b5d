package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/paperqa-io/paperqa/internal/model"
	"github.com/paperqa-io/paperqa/pkg/component/milvus"
)

// Field lengths for the chunk collection schema. Chunk text is bounded by the
// chunker, source document names by the upload handler.
const (
	maxTextLen   = 65535
	maxSourceLen = 512
)

var chunkOutputFields = []string{"text", "source_document", "page_number", "chunk_index"}

// MilvusStore implements VectorStore on top of Milvus.
type MilvusStore struct {
	client *milvus.Client
}

var _ VectorStore = (*MilvusStore)(nil)

// NewMilvusStore creates a Milvus-backed vector store.
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

// EnsureCollection creates the chunk collection if it does not exist.
func (s *MilvusStore) EnsureCollection(ctx context.Context, config *CollectionConfig) error {
	schema := &milvus.CollectionSchema{
		Name:        config.Name,
		Description: config.Description,
		Dimension:   config.Dimension,
		MetaFields: []milvus.MetaField{
			{Name: "text", DataType: entity.FieldTypeVarChar, MaxLen: maxTextLen},
			{Name: "source_document", DataType: entity.FieldTypeVarChar, MaxLen: maxSourceLen},
			{Name: "page_number", DataType: entity.FieldTypeInt64},
			{Name: "chunk_index", DataType: entity.FieldTypeInt64},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Insert stores chunks and returns the Milvus-assigned IDs.
func (s *MilvusStore) Insert(ctx context.Context, collection string, chunks []*Chunk) ([]int64, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(chunks))
	metadata := map[string][]any{
		"text":            make([]any, len(chunks)),
		"source_document": make([]any, len(chunks)),
		"page_number":     make([]any, len(chunks)),
		"chunk_index":     make([]any, len(chunks)),
	}

	for i, chunk := range chunks {
		embeddings[i] = chunk.Embedding
		metadata["text"][i] = chunk.Text
		metadata["source_document"][i] = chunk.SourceDocument
		metadata["page_number"][i] = int64(chunk.PageNumber)
		metadata["chunk_index"][i] = int64(chunk.ChunkIndex)
	}

	data := &milvus.InsertData{
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	ids, err := s.client.Insert(ctx, collection, data)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into milvus: %w", err)
	}

	return ids, nil
}

// Search performs a vector similarity search.
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error) {
	results, err := s.client.Search(ctx, collection, embedding, topK, chunkOutputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	searchResults := make([]*SearchResult, len(results))
	for i, r := range results {
		text, _ := r.Metadata["text"].(string)
		source, _ := r.Metadata["source_document"].(string)
		pageNumber, _ := r.Metadata["page_number"].(int64)
		chunkIndex, _ := r.Metadata["chunk_index"].(int64)

		searchResults[i] = &SearchResult{
			ID: r.ID,
			Chunk: model.Chunk{
				Text:           text,
				SourceDocument: source,
				PageNumber:     int(pageNumber),
				ChunkIndex:     int(chunkIndex),
			},
			Score: r.Score,
		}
	}

	return searchResults, nil
}

// Count returns the number of stored chunks.
func (s *MilvusStore) Count(ctx context.Context, collection string) (int64, error) {
	return s.client.GetCollectionStats(ctx, collection)
}

// Close closes the underlying Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
