// Package profile keeps per-user saved listings, recent searches and
// preferences.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"rentradar/internal/domain/listing"
	"rentradar/internal/domain/user"
)

var ErrListingIDRequired = errors.New("profile: listing id is required")

// MaxRecentSearches caps how many recent searches a listing returns.
const MaxRecentSearches = 10

// SavedListing is a per-user copy of a listing. No freshness relationship
// with the original search result is maintained.
type SavedListing struct {
	Listing listing.Listing `json:"listing"`
	SavedAt time.Time       `json:"savedAt"`
}

// RecentSearch is one remembered query, keyed by its slug so repeats merge.
type RecentSearch struct {
	Slug       string    `json:"-"`
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searchedAt"`
}

// Store persists the per-user subcollections.
type Store interface {
	SaveListing(ctx context.Context, userID string, saved SavedListing) error
	DeleteListing(ctx context.Context, userID, listingID string) error
	SavedListings(ctx context.Context, userID string) ([]SavedListing, error)
	IsListingSaved(ctx context.Context, userID, listingID string) (bool, error)

	UpsertRecentSearch(ctx context.Context, userID string, search RecentSearch) error
	RecentSearches(ctx context.Context, userID string, limit int) ([]RecentSearch, error)
	ClearRecentSearches(ctx context.Context, userID string) error
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SlugifyQuery turns a raw query into the recent-search document key.
func SlugifyQuery(q string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(q)), "-")
}

type Service struct {
	Store  Store
	Users  user.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *Service) SaveListing(ctx context.Context, userID string, l listing.Listing) error {
	if strings.TrimSpace(l.ID) == "" {
		return ErrListingIDRequired
	}
	saved := SavedListing{Listing: l, SavedAt: s.now()}
	if err := s.Store.SaveListing(ctx, userID, saved); err != nil {
		return err
	}
	s.log().Info("listing saved", "user_id", userID, "listing_id", l.ID)
	return nil
}

func (s *Service) UnsaveListing(ctx context.Context, userID, listingID string) error {
	if strings.TrimSpace(listingID) == "" {
		return ErrListingIDRequired
	}
	return s.Store.DeleteListing(ctx, userID, listingID)
}

// SavedListings returns the user's saved listings, newest first.
func (s *Service) SavedListings(ctx context.Context, userID string) ([]SavedListing, error) {
	return s.Store.SavedListings(ctx, userID)
}

func (s *Service) IsListingSaved(ctx context.Context, userID, listingID string) (bool, error) {
	return s.Store.IsListingSaved(ctx, userID, listingID)
}

// RecordSearch upserts the query into the recent set, refreshing the
// timestamp on repeats instead of appending duplicates.
func (s *Service) RecordSearch(ctx context.Context, userID, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	search := RecentSearch{
		Slug:       SlugifyQuery(query),
		Query:      query,
		SearchedAt: s.now(),
	}
	return s.Store.UpsertRecentSearch(ctx, userID, search)
}

// RecentSearches returns up to MaxRecentSearches queries, newest first.
func (s *Service) RecentSearches(ctx context.Context, userID string) ([]RecentSearch, error) {
	return s.Store.RecentSearches(ctx, userID, MaxRecentSearches)
}

func (s *Service) ClearRecentSearches(ctx context.Context, userID string) error {
	return s.Store.ClearRecentSearches(ctx, userID)
}

// Preferences returns the stored preferences, defaulting for unknown users.
func (s *Service) Preferences(ctx context.Context, userID string) (user.Preferences, error) {
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Preferences{Language: user.DefaultLanguage}, nil
		}
		return user.Preferences{}, err
	}
	prefs := u.Preferences
	if prefs.Language == "" {
		prefs.Language = user.DefaultLanguage
	}
	return prefs, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs user.Preferences) error {
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		return err
	}
	u.SetPreferences(prefs, s.now())
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	s.log().Info("preferences updated", "user_id", userID, "language", u.Preferences.Language)
	return nil
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
