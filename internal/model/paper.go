// Package model defines the data models for the application.
package model

// Chunk represents a single unit of retrievable text extracted from a paper.
type Chunk struct {
	// Text is the chunk content.
	Text string `json:"text"`
	// SourceDocument is the filename of the originating PDF.
	SourceDocument string `json:"source_document"`
	// PageNumber is the 1-based page the chunk was extracted from.
	PageNumber int `json:"page_number"`
	// ChunkIndex is the 0-based position of the chunk within its page.
	ChunkIndex int `json:"chunk_index"`
}

// QueryRequest represents the query request body.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerResponse is the structured answer returned to the caller.
type AnswerResponse struct {
	Answer  string   `json:"answer" bson:"answer"`
	Sources []string `json:"sources" bson:"sources"`
}

// UploadResponse represents the paper ingestion response body.
type UploadResponse struct {
	Status             string   `json:"status"`
	Message            string   `json:"message"`
	ProcessedDocuments []string `json:"processed_documents"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LogEntry is the audit record persisted for every successfully answered query.
type LogEntry struct {
	Timestamp        string         `json:"timestamp" bson:"timestamp"`
	Query            string         `json:"query" bson:"query"`
	RetrievedChunks  []string       `json:"retrieved_chunks" bson:"retrieved_chunks"`
	GeneratedAnswer  AnswerResponse `json:"generated_answer" bson:"generated_answer"`
	ProcessingTimeMS float64        `json:"processing_time_ms" bson:"processing_time_ms"`
}
