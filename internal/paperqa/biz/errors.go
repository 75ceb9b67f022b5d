package biz

import "errors"

// Sentinel errors for the pipeline stages. Handlers map these to HTTP status
// codes with errors.Is.
var (
	// ErrValidation indicates a malformed or too-short request.
	ErrValidation = errors.New("validation failed")

	// ErrExtraction indicates that no usable text could be extracted.
	ErrExtraction = errors.New("extraction produced no content")

	// ErrStoreUnavailable indicates the vector store could not be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbedding indicates the embedding call failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrSchemaValidation indicates the model output did not match the
	// expected answer schema.
	ErrSchemaValidation = errors.New("model output failed schema validation")

	// ErrNotReady indicates the pipeline has not finished initializing.
	ErrNotReady = errors.New("service not ready")
)
