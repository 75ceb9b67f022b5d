package biz

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kart-io/logger"

	"github.com/paperqa-io/paperqa/internal/model"
	"github.com/paperqa-io/paperqa/internal/paperqa/metrics"
	"github.com/paperqa-io/paperqa/internal/paperqa/store"
	"github.com/paperqa-io/paperqa/internal/pkg/textutil"
)

// MinQuestionLen is the minimum question length in Unicode characters.
const MinQuestionLen = 5

// auditWriteTimeout bounds the background audit write.
const auditWriteTimeout = 10 * time.Second

// IngestReport summarizes an ingestion batch.
type IngestReport struct {
	// ChunksStored is the total number of chunks stored.
	ChunksStored int
	// ProcessedDocuments lists the filenames that were ingested.
	ProcessedDocuments []string
	// Skipped lists the files that could not be processed.
	Skipped []FileStatus
}

// Service defines the question answering service interface.
type Service interface {
	// IngestPapers extracts, chunks, embeds, and stores the uploaded files.
	IngestPapers(ctx context.Context, files []UploadedFile) (*IngestReport, error)
	// Query answers a question from the ingested papers.
	Query(ctx context.Context, question string) (*model.AnswerResponse, error)
	// Stats returns knowledge base statistics.
	Stats(ctx context.Context) (map[string]any, error)
}

// ServiceConfig configures the pipeline.
type ServiceConfig struct {
	// Collection is the vector collection name.
	Collection string
	// CollectionDescription describes the collection.
	CollectionDescription string
	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int
	// ChunkSize is the chunk size in Unicode characters.
	ChunkSize int
	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int
	// TopK is the number of chunks to retrieve per query.
	TopK int
}

// PaperService combines the ingestor, retriever, and generator into the full
// question answering pipeline.
type PaperService struct {
	ingestor  *Ingestor
	retriever *Retriever
	generator *Generator
	store     store.VectorStore
	embedder  Embedder
	audit     store.AuditStore
	metrics   *metrics.Metrics
	config    *ServiceConfig
}

var _ Service = (*PaperService)(nil)

// NewPaperService creates the service.
func NewPaperService(
	vectorStore store.VectorStore,
	embedder Embedder,
	llm ChatClient,
	audit store.AuditStore,
	extractor Extractor,
	m *metrics.Metrics,
	config *ServiceConfig,
) *PaperService {
	return &PaperService{
		ingestor: NewIngestor(extractor, &IngestorConfig{
			ChunkSize:    config.ChunkSize,
			ChunkOverlap: config.ChunkOverlap,
		}),
		retriever: NewRetriever(vectorStore, embedder, &RetrieverConfig{
			TopK:       config.TopK,
			Collection: config.Collection,
		}),
		generator: NewGenerator(llm),
		store:     vectorStore,
		embedder:  embedder,
		audit:     audit,
		metrics:   m,
		config:    config,
	}
}

// EnsureCollection creates the vector collection if it does not exist.
// Called once during startup.
func (s *PaperService) EnsureCollection(ctx context.Context) error {
	err := s.store.EnsureCollection(ctx, &store.CollectionConfig{
		Name:        s.config.Collection,
		Description: s.config.CollectionDescription,
		Dimension:   s.config.EmbeddingDim,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IngestPapers extracts, chunks, embeds, and stores the uploaded files.
func (s *PaperService) IngestPapers(ctx context.Context, files []UploadedFile) (*IngestReport, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", ErrValidation)
	}

	chunks, statuses, err := s.ingestor.Ingest(files)
	if err != nil {
		s.metrics.RecordIngest(0, 0, err)
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		s.metrics.RecordIngest(0, 0, err)
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(embeddings) != len(chunks) {
		err := fmt.Errorf("%w: got %d embeddings for %d chunks", ErrEmbedding, len(embeddings), len(chunks))
		s.metrics.RecordIngest(0, 0, err)
		return nil, err
	}

	storeChunks := make([]*store.Chunk, len(chunks))
	for i, chunk := range chunks {
		storeChunks[i] = &store.Chunk{
			Text:           chunk.Text,
			SourceDocument: chunk.SourceDocument,
			PageNumber:     chunk.PageNumber,
			ChunkIndex:     chunk.ChunkIndex,
			Embedding:      embeddings[i],
		}
	}

	if _, err := s.store.Insert(ctx, s.config.Collection, storeChunks); err != nil {
		s.metrics.RecordIngest(0, 0, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	report := &IngestReport{ChunksStored: len(storeChunks)}
	for _, status := range statuses {
		if status.Err != nil {
			report.Skipped = append(report.Skipped, status)
			continue
		}
		report.ProcessedDocuments = append(report.ProcessedDocuments, status.Name)
	}

	s.metrics.RecordIngest(len(report.ProcessedDocuments), report.ChunksStored, nil)
	logger.Infow("papers ingested",
		"documents", len(report.ProcessedDocuments),
		"chunks", report.ChunksStored,
		"skipped", len(report.Skipped),
	)

	return report, nil
}

// Query answers a question from the ingested papers. On success the query is
// audited asynchronously; audit failures never fail the query.
func (s *PaperService) Query(ctx context.Context, question string) (*model.AnswerResponse, error) {
	if utf8.RuneCountInString(question) < MinQuestionLen {
		err := fmt.Errorf("%w: question must be at least %d characters", ErrValidation, MinQuestionLen)
		s.metrics.RecordQuery(err)
		return nil, err
	}

	started := time.Now()

	retrievalStart := time.Now()
	results, err := s.retriever.Retrieve(ctx, question)
	s.metrics.RecordRetrieval(time.Since(retrievalStart), err)
	if err != nil {
		s.metrics.RecordQuery(err)
		return nil, err
	}

	prompt := BuildPrompt(results, question)

	llmStart := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	s.metrics.RecordLLMCall(time.Since(llmStart), err)
	if err != nil {
		s.metrics.RecordQuery(err)
		return nil, err
	}

	answer, err := ParseAnswer(raw)
	if err != nil {
		s.metrics.RecordQuery(err)
		return nil, err
	}

	elapsed := time.Since(started)
	s.metrics.RecordQuery(nil)

	logger.Infow("query answered",
		"question", textutil.TruncateString(question, 120),
		"retrieved_chunks", len(results),
		"duration_ms", float64(elapsed.Microseconds())/1000.0,
	)

	s.auditAsync(question, results, answer, elapsed)

	return answer, nil
}

// auditAsync persists the query log without blocking the response path.
func (s *PaperService) auditAsync(question string, results []*store.SearchResult, answer *model.AnswerResponse, elapsed time.Duration) {
	retrieved := make([]string, len(results))
	for i, r := range results {
		retrieved[i] = r.Chunk.Text
	}

	entry := &model.LogEntry{
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		Query:            question,
		RetrievedChunks:  retrieved,
		GeneratedAnswer:  *answer,
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		err := s.audit.Append(ctx, entry)
		s.metrics.RecordAuditWrite(err)
		if err != nil {
			logger.Errorw("failed to write query audit log", "error", err.Error())
		}
	}()
}

// Stats returns knowledge base statistics and service counters.
func (s *PaperService) Stats(ctx context.Context) (map[string]any, error) {
	count, err := s.store.Count(ctx, s.config.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	stats := s.metrics.Snapshot()
	stats["collection"] = s.config.Collection
	stats["chunk_count"] = count
	return stats, nil
}
