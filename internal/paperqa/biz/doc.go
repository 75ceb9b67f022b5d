// Package biz implements the business logic of the question answering
// pipeline: PDF ingestion and chunking, retrieval, prompt assembly, answer
// generation, output validation, and audit logging.
package biz
