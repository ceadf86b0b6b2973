package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads raw catalog documents.
type Store struct {
	db *mongo.Database
}

// NewStore returns a Store over the catalog database.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) find(ctx context.Context, collection string, filter bson.M, out any) error {
	cur, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetLimit(Limit))
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}
