package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "rentradar/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	col := db.Collection("users")
	idx := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &UserRepository{col: col}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil || u.UID == "" {
		return domainuser.ErrIDRequired
	}
	doc := newUserDocument(u)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainuser.ErrEmailAlreadyUsed
	}
	return err
}

type userDocument struct {
	ID             string             `bson:"_id"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	Credits        int64              `bson:"credits"`
	TotalPurchased int64              `bson:"total_purchased"`
	LastPurchase   time.Time          `bson:"last_purchase"`
	Preferences    preferenceDocument `bson:"preferences"`
	CreatedAt      time.Time          `bson:"created_at"`
	LastUpdated    time.Time          `bson:"last_updated"`
}

type preferenceDocument struct {
	Language string `bson:"language"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:             string(u.UID),
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Credits:        u.Credits,
		TotalPurchased: u.TotalPurchased,
		LastPurchase:   u.LastPurchase,
		Preferences:    preferenceDocument{Language: u.Preferences.Language},
		CreatedAt:      u.CreatedAt,
		LastUpdated:    u.LastUpdated,
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		UID:            domainuser.ID(d.ID),
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Credits:        d.Credits,
		TotalPurchased: d.TotalPurchased,
		LastPurchase:   d.LastPurchase,
		Preferences:    domainuser.Preferences{Language: d.Preferences.Language},
		CreatedAt:      d.CreatedAt,
		LastUpdated:    d.LastUpdated,
	}
}

var _ domainuser.Repository = (*UserRepository)(nil)
