// Package session is the paywall/filter layer: it owns the fetched result
// set, the active filters and the daily reveal counter for each user. It
// replaces ad hoc page-scoped state with one object whose only mutators are
// Search and SetFilters, so the counter and the result cache cannot drift
// apart. The server-side counter is authoritative; any client-local copy is
// a display cache.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rentradar/internal/app/scan"
	"rentradar/internal/domain/listing"
	"rentradar/internal/domain/quota"
	"rentradar/internal/domain/user"
)

// Scanner runs the search pipeline.
type Scanner interface {
	Scan(ctx context.Context, query string) (scan.Result, error)
}

// View is what one search or filter change exposes to the client.
type View struct {
	Listings  []listing.Listing `json:"listings"`
	Total     int               `json:"total"`
	Shown     int               `json:"shown"`
	Cached    bool              `json:"cached"`
	Paywall   bool              `json:"paywall"`
	Remaining int               `json:"remaining"`
}

// state is the per-user fetched result set plus how many reveals the user
// has been granted for it.
type state struct {
	query    string
	all      []listing.Listing
	filters  listing.Filters
	cached   bool
	revealed int
}

type Service struct {
	Scanner Scanner
	Quota   quota.Store
	Users   user.Repository
	Logger  *slog.Logger
	Now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*state
}

// Search clears the previous result set, runs the pipeline, applies the
// active filters and reveals as many filtered results as the remaining
// allotment permits, advancing the daily counter by the reveals actually
// granted.
func (s *Service) Search(ctx context.Context, userID, query string, filters listing.Filters) (View, error) {
	result, err := s.Scanner.Scan(ctx, query)
	if err != nil {
		return View{}, err
	}
	now := s.now()

	counter, err := s.Quota.Get(ctx, userID, now)
	if err != nil {
		return View{}, err
	}
	counter = counter.Normalize(now)
	limit := s.allotment(ctx, userID)

	filtered := filters.Apply(result.Listings)
	reveal := counter.Remaining(limit)
	if reveal > len(filtered) {
		reveal = len(filtered)
	}

	if reveal > 0 {
		counter = counter.Consume(reveal, now)
		if err := s.Quota.Put(ctx, userID, counter); err != nil {
			return View{}, err
		}
	}

	st := &state{
		query:    scan.NormalizeQuery(query),
		all:      result.Listings,
		filters:  filters,
		cached:   result.Cached,
		revealed: reveal,
	}
	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[string]*state)
	}
	s.sessions[userID] = st
	s.mu.Unlock()

	s.log().Info("search revealed",
		"user_id", userID,
		"query", st.query,
		"fetched", len(result.Listings),
		"filtered", len(filtered),
		"revealed", reveal,
		"counter", counter.Count,
	)
	return s.view(st, filtered, counter, limit), nil
}

// SetFilters re-applies filters to the already-fetched set. No network call
// is made and the quota is not re-checked retroactively: the reveal stays
// capped at what this result set was already granted.
func (s *Service) SetFilters(ctx context.Context, userID string, filters listing.Filters) (View, error) {
	s.mu.Lock()
	st, ok := s.sessions[userID]
	if ok {
		st.filters = filters
	}
	s.mu.Unlock()
	if !ok {
		return View{}, nil
	}

	now := s.now()
	counter, err := s.Quota.Get(ctx, userID, now)
	if err != nil {
		return View{}, err
	}
	counter = counter.Normalize(now)
	filtered := filters.Apply(st.all)
	return s.view(st, filtered, counter, s.allotment(ctx, userID)), nil
}

// ConsumeQuota grants n extra reveals against the current allotment,
// returning how many were actually granted.
func (s *Service) ConsumeQuota(ctx context.Context, userID string, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	now := s.now()
	counter, err := s.Quota.Get(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	counter = counter.Normalize(now)
	grant := counter.Remaining(s.allotment(ctx, userID))
	if grant > n {
		grant = n
	}
	if grant == 0 {
		return 0, nil
	}
	counter = counter.Consume(grant, now)
	if err := s.Quota.Put(ctx, userID, counter); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if st, ok := s.sessions[userID]; ok {
		st.revealed += grant
	}
	s.mu.Unlock()
	return grant, nil
}

func (s *Service) view(st *state, filtered []listing.Listing, counter quota.DailyCounter, limit int) View {
	shown := st.revealed
	if shown > len(filtered) {
		shown = len(filtered)
	}
	remaining := counter.Remaining(limit)
	return View{
		Listings:  filtered[:shown],
		Total:     len(filtered),
		Shown:     shown,
		Cached:    st.cached,
		Paywall:   remaining == 0 || shown < len(filtered),
		Remaining: remaining,
	}
}

// allotment is the free daily limit extended by purchased credits. Unknown
// users fall back to the free limit alone.
func (s *Service) allotment(ctx context.Context, userID string) int {
	limit := quota.FreeDailyLimit
	if s.Users == nil {
		return limit
	}
	u, err := s.Users.ByID(ctx, user.ID(userID))
	if err != nil {
		return limit
	}
	return limit + int(u.Credits)
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
