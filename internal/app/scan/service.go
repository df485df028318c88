package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentradar/internal/app/events"
	"rentradar/internal/domain/listing"
)

var (
	// ErrNotConfigured is returned when search provider credentials are
	// absent. Surfaced to clients as a generic configuration error.
	ErrNotConfigured = errors.New("scan: search provider not configured")
)

// UpstreamError carries a non-success status from an external provider.
type UpstreamError struct {
	Provider string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("scan: %s returned status %d", e.Provider, e.Status)
}

// rentalQualifier narrows raw queries to rental listings and excludes
// sale-only results before they reach the search provider.
const rentalQualifier = "alquiler departamento -venta"

// maxResults is the number of raw results requested per search.
const maxResults = 10

// RawResult is one untyped hit from the external search provider.
type RawResult struct {
	Title   string
	Snippet string
	Link    string
	Images  []string
}

// SearchProvider is the external keyword search API.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]RawResult, error)
}

// Structurer turns raw search results into listings. The deterministic
// formatter and the generative provider are the two interchangeable
// implementations.
type Structurer interface {
	Structure(ctx context.Context, query string, raw []RawResult) ([]listing.Listing, error)
}

// CacheEntry is one cached query result set.
type CacheEntry struct {
	Query     string
	Results   []listing.Listing
	Timestamp time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Live reports whether the entry is still usable at the given time.
func (e CacheEntry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Cache stores result sets keyed by normalized query. Expired entries are
// ignored on read and overwritten on the next write for the same key; there
// is no background eviction.
type Cache interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Put(ctx context.Context, entry CacheEntry) error
}

// Result is the pipeline output for one query.
type Result struct {
	Listings []listing.Listing `json:"listings"`
	Cached   bool              `json:"cached"`
}

// NormalizeQuery produces the cache key for a raw query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Service orchestrates cache lookup, external search, structuring and the
// cache write-back.
type Service struct {
	Provider   SearchProvider
	Structurer Structurer
	Cache      Cache
	TTL        time.Duration
	Events     events.Publisher
	Logger     *slog.Logger
	Now        func() time.Time
}

// Scan runs the full pipeline for one free-text query.
func (s *Service) Scan(ctx context.Context, query string) (Result, error) {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return Result{Listings: []listing.Listing{}}, nil
	}
	if s.Provider == nil || s.Structurer == nil {
		return Result{}, ErrNotConfigured
	}
	now := s.now()

	if s.Cache != nil {
		entry, found, err := s.Cache.Get(ctx, normalized)
		if err != nil {
			s.log().Warn("cache read failed", "query", normalized, "error", err)
		} else if found && entry.Live(now) {
			s.log().Info("cache hit", "query", normalized, "listings", len(entry.Results))
			s.emit(ctx, normalized, len(entry.Results), true)
			return Result{Listings: entry.Results, Cached: true}, nil
		}
	}

	qualified := query + " " + rentalQualifier
	raw, err := s.Provider.Search(ctx, qualified, maxResults)
	if err != nil {
		return Result{}, err
	}
	if len(raw) == 0 {
		s.log().Info("search returned no results", "query", normalized)
		return Result{Listings: []listing.Listing{}}, nil
	}

	listings, err := s.Structurer.Structure(ctx, query, raw)
	if err != nil {
		return Result{}, err
	}
	if listings == nil {
		listings = []listing.Listing{}
	}

	if s.Cache != nil && len(listings) > 0 {
		entry := CacheEntry{
			Query:     normalized,
			Results:   listings,
			Timestamp: now,
			ExpiresAt: now.Add(s.ttl()),
			CreatedAt: now,
		}
		if err := s.Cache.Put(ctx, entry); err != nil {
			// Caching failure must not break the search itself.
			s.log().Warn("cache write failed", "query", normalized, "error", err)
		}
	}

	s.log().Info("scan completed", "query", normalized, "listings", len(listings))
	s.emit(ctx, normalized, len(listings), false)
	return Result{Listings: listings, Cached: false}, nil
}

func (s *Service) emit(ctx context.Context, query string, count int, cached bool) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(ctx, events.ScanCompleted{
		Query:      query,
		Listings:   count,
		Cached:     cached,
		OccurredAt: s.now(),
	})
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
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
