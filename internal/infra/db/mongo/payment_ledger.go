package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"rentradar/internal/app/payments"
)

// PaymentLedger records processed payment ids so webhook redeliveries cannot
// credit an account twice. Duplicate detection rides on the _id uniqueness of
// the payment id.
type PaymentLedger struct {
	col *mongo.Collection
}

func NewPaymentLedger(db *mongo.Database) *PaymentLedger {
	return &PaymentLedger{col: db.Collection("processed_payments")}
}

func (l *PaymentLedger) Record(ctx context.Context, paymentID, userID string, amount int64) error {
	doc := processedPaymentDocument{
		ID:          paymentID,
		UserID:      userID,
		Amount:      amount,
		ProcessedAt: time.Now().UTC(),
	}
	_, err := l.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return payments.ErrAlreadyProcessed
	}
	return err
}

func (l *PaymentLedger) Remove(ctx context.Context, paymentID string) error {
	_, err := l.col.DeleteOne(ctx, bson.M{"_id": paymentID})
	return err
}

type processedPaymentDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Amount      int64     `bson:"amount"`
	ProcessedAt time.Time `bson:"processed_at"`
}

var _ payments.Ledger = (*PaymentLedger)(nil)
