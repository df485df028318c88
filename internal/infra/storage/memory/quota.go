package memory

import (
	"context"
	"sync"
	"time"

	"rentradar/internal/domain/quota"
)

// QuotaStore keeps one daily counter per user in memory.
type QuotaStore struct {
	mu       sync.RWMutex
	counters map[string]quota.DailyCounter
}

func NewQuotaStore() *QuotaStore {
	return &QuotaStore{counters: make(map[string]quota.DailyCounter)}
}

func (s *QuotaStore) Get(ctx context.Context, userID string, now time.Time) (quota.DailyCounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.counters[userID]; ok {
		return c.Normalize(now), nil
	}
	return quota.DailyCounter{Date: now.Format(quota.DayFormat)}, nil
}

func (s *QuotaStore) Put(ctx context.Context, userID string, counter quota.DailyCounter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[userID] = counter
	return nil
}

var _ quota.Store = (*QuotaStore)(nil)
