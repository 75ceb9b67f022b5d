// Package store provides the storage layer for the question answering service.
//
// It defines the vector store abstraction with Milvus and in-memory
// implementations, and the audit store that persists query logs to MongoDB.
package store
