package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentradar/internal/app/scan"
	"rentradar/internal/domain/listing"
)

// CacheRepository persists search result sets keyed by normalized query.
// Mongo's TTL monitor evicts expired documents; reads additionally check
// expiry so a just-expired entry never counts as a hit.
type CacheRepository struct {
	col *mongo.Collection
}

func NewCacheRepository(db *mongo.Database) *CacheRepository {
	col := db.Collection("search_cache")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &CacheRepository{col: col}
}

func (r *CacheRepository) Get(ctx context.Context, key string) (scan.CacheEntry, bool, error) {
	var doc cacheDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return scan.CacheEntry{}, false, nil
		}
		return scan.CacheEntry{}, false, err
	}
	return doc.toEntry(), true, nil
}

func (r *CacheRepository) Put(ctx context.Context, entry scan.CacheEntry) error {
	doc := newCacheDocument(entry)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type cacheDocument struct {
	ID        string            `bson:"_id"`
	Query     string            `bson:"query"`
	Results   []listing.Listing `bson:"results"`
	Timestamp time.Time         `bson:"timestamp"`
	ExpiresAt time.Time         `bson:"expires_at"`
	CreatedAt time.Time         `bson:"created_at"`
}

func newCacheDocument(e scan.CacheEntry) cacheDocument {
	return cacheDocument{
		ID:        e.Query,
		Query:     e.Query,
		Results:   e.Results,
		Timestamp: e.Timestamp.UTC(),
		ExpiresAt: e.ExpiresAt.UTC(),
		CreatedAt: e.CreatedAt.UTC(),
	}
}

func (d cacheDocument) toEntry() scan.CacheEntry {
	return scan.CacheEntry{
		Query:     d.Query,
		Results:   d.Results,
		Timestamp: d.Timestamp,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

var _ scan.Cache = (*CacheRepository)(nil)
