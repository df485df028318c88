package memory

import (
	"context"
	"sort"
	"sync"

	"rentradar/internal/app/profile"
)

// ProfileStore keeps the per-user subcollections in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	saved    map[string]map[string]profile.SavedListing // userID -> listingID
	searches map[string]map[string]profile.RecentSearch // userID -> slug
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		saved:    make(map[string]map[string]profile.SavedListing),
		searches: make(map[string]map[string]profile.RecentSearch),
	}
}

func (s *ProfileStore) SaveListing(ctx context.Context, userID string, saved profile.SavedListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[userID]; !ok {
		s.saved[userID] = make(map[string]profile.SavedListing)
	}
	s.saved[userID][saved.Listing.ID] = saved
	return nil
}

func (s *ProfileStore) DeleteListing(ctx context.Context, userID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved[userID], listingID)
	return nil
}

func (s *ProfileStore) SavedListings(ctx context.Context, userID string) ([]profile.SavedListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.SavedListing, 0, len(s.saved[userID]))
	for _, saved := range s.saved[userID] {
		out = append(out, saved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (s *ProfileStore) IsListingSaved(ctx context.Context, userID, listingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.saved[userID][listingID]
	return ok, nil
}

func (s *ProfileStore) UpsertRecentSearch(ctx context.Context, userID string, search profile.RecentSearch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.searches[userID]; !ok {
		s.searches[userID] = make(map[string]profile.RecentSearch)
	}
	s.searches[userID][search.Slug] = search
	return nil
}

func (s *ProfileStore) RecentSearches(ctx context.Context, userID string, limit int) ([]profile.RecentSearch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.RecentSearch, 0, len(s.searches[userID]))
	for slug, search := range s.searches[userID] {
		search.Slug = slug
		out = append(out, search)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchedAt.After(out[j].SearchedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ProfileStore) ClearRecentSearches(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.searches, userID)
	return nil
}

var _ profile.Store = (*ProfileStore)(nil)
