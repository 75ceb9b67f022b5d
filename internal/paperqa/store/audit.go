package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paperqa-io/paperqa/internal/model"
)

// AuditStore persists query audit records.
type AuditStore interface {
	// Append writes an audit entry.
	Append(ctx context.Context, entry *model.LogEntry) error
}

// MongoAuditStore implements AuditStore on a MongoDB collection.
type MongoAuditStore struct {
	collection *mongo.Collection
}

var _ AuditStore = (*MongoAuditStore)(nil)

// NewMongoAuditStore creates an audit store writing to the given collection.
func NewMongoAuditStore(collection *mongo.Collection) *MongoAuditStore {
	return &MongoAuditStore{collection: collection}
}

// Append inserts the audit entry.
func (s *MongoAuditStore) Append(ctx context.Context, entry *model.LogEntry) error {
	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
