package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentradar/internal/app/profile"
	"rentradar/internal/domain/listing"
)

// ProfileRepository persists saved listings and recent searches. Both
// collections key documents by "<user>/<child>" so one upsert per action
// suffices and repeats merge instead of duplicating.
type ProfileRepository struct {
	saved    *mongo.Collection
	searches *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	saved := db.Collection("saved_listings")
	searches := db.Collection("recent_searches")
	userIdx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}
	_, _ = saved.Indexes().CreateOne(context.Background(), userIdx)
	_, _ = searches.Indexes().CreateOne(context.Background(), userIdx)
	return &ProfileRepository{saved: saved, searches: searches}
}

func (r *ProfileRepository) SaveListing(ctx context.Context, userID string, s profile.SavedListing) error {
	doc := savedListingDocument{
		ID:      userID + "/" + s.Listing.ID,
		UserID:  userID,
		Listing: s.Listing,
		SavedAt: s.SavedAt.UTC(),
	}
	_, err := r.saved.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ProfileRepository) DeleteListing(ctx context.Context, userID, listingID string) error {
	_, err := r.saved.DeleteOne(ctx, bson.M{"_id": userID + "/" + listingID})
	return err
}

func (r *ProfileRepository) SavedListings(ctx context.Context, userID string) ([]profile.SavedListing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}})
	cur, err := r.saved.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []profile.SavedListing{}
	for cur.Next(ctx) {
		var doc savedListingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, profile.SavedListing{Listing: doc.Listing, SavedAt: doc.SavedAt})
	}
	return out, cur.Err()
}

func (r *ProfileRepository) IsListingSaved(ctx context.Context, userID, listingID string) (bool, error) {
	err := r.saved.FindOne(ctx, bson.M{"_id": userID + "/" + listingID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ProfileRepository) UpsertRecentSearch(ctx context.Context, userID string, search profile.RecentSearch) error {
	doc := recentSearchDocument{
		ID:         userID + "/" + search.Slug,
		UserID:     userID,
		Slug:       search.Slug,
		Query:      search.Query,
		SearchedAt: search.SearchedAt.UTC(),
	}
	_, err := r.searches.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ProfileRepository) RecentSearches(ctx context.Context, userID string, limit int) ([]profile.RecentSearch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "searched_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.searches.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []profile.RecentSearch{}
	for cur.Next(ctx) {
		var doc recentSearchDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, profile.RecentSearch{Slug: doc.Slug, Query: doc.Query, SearchedAt: doc.SearchedAt})
	}
	return out, cur.Err()
}

func (r *ProfileRepository) ClearRecentSearches(ctx context.Context, userID string) error {
	_, err := r.searches.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

type savedListingDocument struct {
	ID      string          `bson:"_id"`
	UserID  string          `bson:"user_id"`
	Listing listing.Listing `bson:"listing"`
	SavedAt time.Time       `bson:"saved_at"`
}

type recentSearchDocument struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	Slug       string    `bson:"slug"`
	Query      string    `bson:"query"`
	SearchedAt time.Time `bson:"searched_at"`
}

var _ profile.Store = (*ProfileRepository)(nil)
