// Package mongostore implements docstore.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/masterwizr/sluice/internal/docstore"
	"github.com/masterwizr/sluice/internal/model"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store is a docstore.Store backed by one MongoDB database; each
// environment bucket maps to a collection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials and pings the server. An unreachable store returns
// *docstore.ConnectError, which aborts the whole load stage.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, &docstore.ConnectError{Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &docstore.ConnectError{Err: err}
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// EnsureUniqueIndex creates a unique index on field, named after the
// field. CreateOne is a no-op when the index already exists.
func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field),
	})
	if err != nil {
		return fmt.Errorf("mongostore: ensure index %s.%s: %w", collection, field, err)
	}
	return nil
}

// InsertMany bulk-inserts unordered, so one rejected record does not stop
// the rest of the batch. Per-record rejections come back as
// *docstore.BulkError with the store's error codes preserved.
func (s *Store) InsertMany(ctx context.Context, collection string, records []model.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}

	res, err := s.db.Collection(collection).InsertMany(ctx, docs,
		options.InsertMany().SetOrdered(false))

	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		return inserted, toBulkError(collection, bwe)
	}
	if err != nil {
		return inserted, fmt.Errorf("mongostore: insert into %s: %w", collection, err)
	}
	return inserted, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toBulkError maps the driver's bulk write exception onto the docstore
// error type, keeping per-record codes checkable by the loader.
func toBulkError(collection string, bwe mongo.BulkWriteException) *docstore.BulkError {
	be := &docstore.BulkError{Collection: collection}
	for _, we := range bwe.WriteErrors {
		be.Errors = append(be.Errors, docstore.WriteError{
			Index:   we.Index,
			Code:    we.Code,
			Message: we.Message,
		})
	}
	return be
}
