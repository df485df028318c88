package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentradar/internal/domain/quota"
)

// QuotaStore keeps one daily reveal counter per user. Stale counters are
// normalized on read; the stored date says which day the count belongs to.
type QuotaStore struct {
	col *mongo.Collection
}

func NewQuotaStore(db *mongo.Database) *QuotaStore {
	return &QuotaStore{col: db.Collection("daily_usage")}
}

func (s *QuotaStore) Get(ctx context.Context, userID string, now time.Time) (quota.DailyCounter, error) {
	var doc quotaDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return quota.DailyCounter{Date: now.Format(quota.DayFormat)}, nil
		}
		return quota.DailyCounter{}, err
	}
	counter := quota.DailyCounter{Count: doc.Count, Date: doc.Date}
	return counter.Normalize(now), nil
}

func (s *QuotaStore) Put(ctx context.Context, userID string, counter quota.DailyCounter) error {
	doc := quotaDocument{ID: userID, Count: counter.Count, Date: counter.Date}
	_, err := s.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type quotaDocument struct {
	ID    string `bson:"_id"`
	Count int    `bson:"count"`
	Date  string `bson:"date"`
}

var _ quota.Store = (*QuotaStore)(nil)
