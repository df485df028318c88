// Package credits manages the purchased quota on user accounts. Accounts
// are created lazily on first read, mirroring how the paywall meets users
// that signed up through the auth provider but never purchased.
package credits

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentradar/internal/domain/user"
)

// Info is the credit summary exposed to clients.
type Info struct {
	Credits        int64      `json:"credits"`
	TotalPurchased int64      `json:"totalPurchased"`
	LastPurchase   *time.Time `json:"lastPurchase"`
}

type Service struct {
	Users  user.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

// Credits returns the remaining paid quota, initializing a zero-credit
// account when none exists yet.
func (s *Service) Credits(ctx context.Context, userID string) (int64, error) {
	u, err := s.getOrInit(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Credits, nil
}

// AddCredits grants purchased quota after a confirmed payment.
func (s *Service) AddCredits(ctx context.Context, userID string, amount int64) error {
	u, err := s.getOrInit(ctx, userID)
	if err != nil {
		return err
	}
	u.AddCredits(amount, s.now())
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	s.log().Info("credits added", "user_id", userID, "amount", amount, "balance", u.Credits)
	return nil
}

// DeductCredit consumes one paid quota unit. Fails with user.ErrNoCredits
// when the balance is empty and with user.ErrNotFound for unknown users.
func (s *Service) DeductCredit(ctx context.Context, userID string) error {
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		return err
	}
	if err := u.DeductCredit(s.now()); err != nil {
		return err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	s.log().Info("credit deducted", "user_id", userID, "remaining", u.Credits)
	return nil
}

// CreditInfo returns the full credit summary; unknown users read as empty.
func (s *Service) CreditInfo(ctx context.Context, userID string) (Info, error) {
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Info{}, nil
		}
		return Info{}, err
	}
	info := Info{Credits: u.Credits, TotalPurchased: u.TotalPurchased}
	if !u.LastPurchase.IsZero() {
		t := u.LastPurchase
		info.LastPurchase = &t
	}
	return info, nil
}

func (s *Service) getOrInit(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	u, err = user.New(user.CreateParams{UID: user.ID(userID), Now: s.now()})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.log().Info("user initialized", "user_id", userID)
	return u, nil
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
