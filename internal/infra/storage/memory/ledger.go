package memory

import (
	"context"
	"sync"
	"time"

	"rentradar/internal/app/payments"
)

// PaymentLedger records processed payment ids in memory.
type PaymentLedger struct {
	mu        sync.Mutex
	processed map[string]ledgerEntry
}

type ledgerEntry struct {
	userID      string
	amount      int64
	processedAt time.Time
}

func NewPaymentLedger() *PaymentLedger {
	return &PaymentLedger{processed: make(map[string]ledgerEntry)}
}

func (l *PaymentLedger) Record(ctx context.Context, paymentID, userID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.processed[paymentID]; ok {
		return payments.ErrAlreadyProcessed
	}
	l.processed[paymentID] = ledgerEntry{userID: userID, amount: amount, processedAt: time.Now().UTC()}
	return nil
}

func (l *PaymentLedger) Remove(ctx context.Context, paymentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.processed, paymentID)
	return nil
}

var _ payments.Ledger = (*PaymentLedger)(nil)
