package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired       = errors.New("user: id is required")
	ErrEmailRequired    = errors.New("user: email is required")
	ErrEmailAlreadyUsed = errors.New("user: email already used")
	ErrNotFound         = errors.New("user: not found")
	ErrNoCredits        = errors.New("user: no credits available")
)

type ID string

// DefaultLanguage is applied when a user has no stored preference.
const DefaultLanguage = "es"

type Preferences struct {
	Language string `json:"language" bson:"language"`
}

// User is the account document. Credits are the paid quota units; the free
// daily allotment is tracked separately per day. Users are created lazily on
// first credit read and never hard-deleted.
type User struct {
	UID            ID
	Email          string
	PasswordHash   string
	Credits        int64
	TotalPurchased int64
	LastPurchase   time.Time
	Preferences    Preferences
	CreatedAt      time.Time
	LastUpdated    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	UID          ID
	Email        string
	PasswordHash string
	Credits      int64
	Now          time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.UID))
	if id == "" {
		return nil, ErrIDRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	u := &User{
		UID:          ID(id),
		Email:        normalizeEmail(params.Email),
		PasswordHash: params.PasswordHash,
		Credits:      params.Credits,
		Preferences:  Preferences{Language: DefaultLanguage},
		CreatedAt:    now,
		LastUpdated:  now,
	}
	if params.Credits > 0 {
		u.TotalPurchased = params.Credits
		u.LastPurchase = now
	}
	return u, nil
}

// AddCredits grants paid quota, bumping the lifetime purchase counter.
func (u *User) AddCredits(amount int64, now time.Time) {
	if amount <= 0 {
		return
	}
	u.Credits += amount
	u.TotalPurchased += amount
	u.LastPurchase = now.UTC()
	u.touch(now)
}

// DeductCredit consumes one paid quota unit.
func (u *User) DeductCredit(now time.Time) error {
	if u.Credits <= 0 {
		return ErrNoCredits
	}
	u.Credits--
	u.touch(now)
	return nil
}

func (u *User) SetPreferences(p Preferences, now time.Time) {
	if strings.TrimSpace(p.Language) == "" {
		p.Language = DefaultLanguage
	}
	u.Preferences = p
	u.touch(now)
}

func (u *User) touch(now time.Time) {
	u.LastUpdated = now.UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
