// Package payments orchestrates the checkout preference creation and the
// provider webhook that credits accounts after approved payments.
package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentradar/internal/app/events"
)

var (
	ErrNotConfigured    = errors.New("payments: provider access token missing")
	ErrMissingPaymentID = errors.New("payments: notification carries no payment id")
	ErrPaymentNotFound  = errors.New("payments: payment not found at provider")
	ErrMissingUserID    = errors.New("payments: payment metadata carries no user id")
	ErrAlreadyProcessed = errors.New("payments: payment already processed")
)

// The single SKU this service sells: a pack of extra listing reveals.
const (
	CreditPackSKU    = "pack-10-listings"
	CreditPackTitle  = "10 Alquileres Premium - RentRadar"
	CreditPackPrice  = 1000
	CreditPackAmount = 10
	currency         = "ARS"
)

const statusApproved = "approved"

// PreferenceRequest describes the checkout session to create.
type PreferenceRequest struct {
	SKU       string
	Title     string
	UnitPrice float64
	Currency  string
	BaseURL   string
	UserID    string
}

// Preference is the provider checkout session handle.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the provider's view of one payment.
type Payment struct {
	ID     string
	Status string
	UserID string
}

// Gateway is the payment provider API surface this service needs.
type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error)
	GetPayment(ctx context.Context, paymentID string) (Payment, error)
}

// Ledger records processed payment ids so provider retries cannot credit an
// account twice. Record must fail with ErrAlreadyProcessed on a duplicate.
type Ledger interface {
	Record(ctx context.Context, paymentID string, userID string, amount int64) error
	Remove(ctx context.Context, paymentID string) error
}

// CreditGranter adds purchased quota to a user account.
type CreditGranter interface {
	AddCredits(ctx context.Context, userID string, amount int64) error
}

// Notification is the webhook payload the provider posts.
type Notification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// WebhookResult is what the webhook endpoint acknowledges with.
type WebhookResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Service struct {
	Gateway Gateway
	Ledger  Ledger
	Credits CreditGranter
	BaseURL string
	Events  events.Publisher
	Logger  *slog.Logger
	Now     func() time.Time
}

// CreatePreference opens a checkout session for the fixed credit pack.
func (s *Service) CreatePreference(ctx context.Context, userID string) (Preference, error) {
	if s.Gateway == nil {
		return Preference{}, ErrNotConfigured
	}
	pref, err := s.Gateway.CreatePreference(ctx, PreferenceRequest{
		SKU:       CreditPackSKU,
		Title:     CreditPackTitle,
		UnitPrice: CreditPackPrice,
		Currency:  currency,
		BaseURL:   s.BaseURL,
		UserID:    userID,
	})
	if err != nil {
		return Preference{}, err
	}
	s.log().Info("checkout preference created", "preference_id", pref.ID, "user_id", userID)
	return pref, nil
}

// HandleWebhook processes one provider notification. Non-payment types and
// unapproved payments are acknowledged without side effects. Approved
// payments credit the metadata user exactly once per payment id.
func (s *Service) HandleWebhook(ctx context.Context, n Notification) (WebhookResult, error) {
	if n.Type != "payment" {
		return WebhookResult{Success: true, Message: "Webhook received"}, nil
	}
	if n.Data.ID == "" {
		s.log().Error("webhook without payment id", "action", n.Action)
		return WebhookResult{}, ErrMissingPaymentID
	}
	if s.Gateway == nil {
		return WebhookResult{}, ErrNotConfigured
	}

	payment, err := s.Gateway.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return WebhookResult{}, err
	}
	if payment.Status != statusApproved {
		s.log().Info("payment not approved, no action", "payment_id", payment.ID, "status", payment.Status)
		return WebhookResult{Success: true, Message: "Payment not approved yet"}, nil
	}
	if payment.UserID == "" {
		s.log().Error("approved payment without user id in metadata", "payment_id", payment.ID)
		return WebhookResult{}, ErrMissingUserID
	}

	// Provider delivery is at-least-once; the ledger makes the grant
	// idempotent per payment id.
	if err := s.Ledger.Record(ctx, payment.ID, payment.UserID, CreditPackAmount); err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			s.log().Info("duplicate webhook ignored", "payment_id", payment.ID)
			return WebhookResult{Success: true, Message: "Payment already processed"}, nil
		}
		return WebhookResult{}, err
	}

	if err := s.Credits.AddCredits(ctx, payment.UserID, CreditPackAmount); err != nil {
		// Undo the ledger entry so a provider retry can complete the grant.
		if rmErr := s.Ledger.Remove(ctx, payment.ID); rmErr != nil {
			s.log().Error("ledger rollback failed", "payment_id", payment.ID, "error", rmErr)
		}
		return WebhookResult{}, err
	}

	s.log().Info("credits granted", "payment_id", payment.ID, "user_id", payment.UserID, "amount", CreditPackAmount)
	if s.Events != nil {
		s.Events.Publish(ctx, events.CreditsGranted{
			UserID:     payment.UserID,
			Amount:     CreditPackAmount,
			PaymentID:  payment.ID,
			OccurredAt: s.now(),
		})
	}
	return WebhookResult{Success: true, Message: "Credits added successfully"}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
