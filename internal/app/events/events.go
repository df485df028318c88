// Package events defines the domain events the service publishes best
// effort. Publishing failures are logged by the publisher and never reach
// the request path.
package events

import (
	"context"
	"time"
)

// Event is anything the broker adapter can serialize and route.
type Event interface {
	Name() string
	Key() string
}

// ScanCompleted records one finished search pipeline run.
type ScanCompleted struct {
	Query      string    `json:"query"`
	Listings   int       `json:"listings"`
	Cached     bool      `json:"cached"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ScanCompleted) Name() string  { return "scan.completed" }
func (e ScanCompleted) Key() string { return e.Query }

// CreditsGranted records a successful webhook credit grant.
type CreditsGranted struct {
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	PaymentID  string    `json:"payment_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (CreditsGranted) Name() string  { return "credits.granted" }
func (e CreditsGranted) Key() string { return e.UserID }

// Publisher pushes events to the stream. Implementations must not block the
// caller on broker failures beyond the send itself.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
