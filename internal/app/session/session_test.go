package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rentradar/internal/app/scan"
	"rentradar/internal/domain/listing"
	"rentradar/internal/domain/quota"
	"rentradar/internal/domain/user"
	"rentradar/internal/infra/storage/memory"
)

func seedUser(t *testing.T, users *memory.UserRepository, id string, credits int64) {
	t.Helper()
	u, err := user.New(user.CreateParams{UID: user.ID(id), Credits: credits, Now: fixedNow()})
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Save(context.Background(), u); err != nil {
		t.Fatal(err)
	}
}

type stubScanner struct {
	listings []listing.Listing
	calls    int
}

func (s *stubScanner) Scan(context.Context, string) (scan.Result, error) {
	s.calls++
	return scan.Result{Listings: s.listings}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func listingsN(n int) []listing.Listing {
	out := make([]listing.Listing, n)
	for i := range out {
		out[i] = listing.Listing{ID: fmt.Sprintf("l%d", i), Price: 400000, Bedrooms: 2}
	}
	return out
}

func newService(scanner Scanner, store quota.Store) *Service {
	return &Service{Scanner: scanner, Quota: store, Now: fixedNow}
}

func TestSearchRevealsUnderQuota(t *testing.T) {
	store := memory.NewQuotaStore()
	// 7 reveals already spent today, free limit 10.
	seed := quota.DailyCounter{Count: 7, Date: fixedNow().Format(quota.DayFormat)}
	if err := store.Put(context.Background(), "u1", seed); err != nil {
		t.Fatal(err)
	}

	svc := newService(&stubScanner{listings: listingsN(8)}, store)
	view, err := svc.Search(context.Background(), "u1", "palermo", listing.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if view.Shown != 3 || len(view.Listings) != 3 {
		t.Errorf("expected 3 reveals, got shown=%d len=%d", view.Shown, len(view.Listings))
	}
	if view.Total != 8 {
		t.Errorf("total = %d; want 8", view.Total)
	}
	if !view.Paywall {
		t.Error("paywall should be raised when filtered > shown")
	}

	counter, _ := store.Get(context.Background(), "u1", fixedNow())
	if counter.Count != 10 {
		t.Errorf("counter advanced to %d; want 10", counter.Count)
	}
}

func TestSearchAllRevealedNoPaywall(t *testing.T) {
	svc := newService(&stubScanner{listings: listingsN(4)}, memory.NewQuotaStore())
	view, err := svc.Search(context.Background(), "u1", "palermo", listing.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if view.Shown != 4 || view.Paywall {
		t.Errorf("shown=%d paywall=%v; want 4/false", view.Shown, view.Paywall)
	}
}

func TestSearchQuotaExhausted(t *testing.T) {
	store := memory.NewQuotaStore()
	seed := quota.DailyCounter{Count: quota.FreeDailyLimit, Date: fixedNow().Format(quota.DayFormat)}
	store.Put(context.Background(), "u1", seed)

	svc := newService(&stubScanner{listings: listingsN(5)}, store)
	view, err := svc.Search(context.Background(), "u1", "palermo", listing.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if view.Shown != 0 || !view.Paywall {
		t.Errorf("shown=%d paywall=%v; want 0/true", view.Shown, view.Paywall)
	}
}

func TestSetFiltersNoNetworkNoQuota(t *testing.T) {
	scanner := &stubScanner{listings: []listing.Listing{
		{ID: "a", Price: 250000, Bedrooms: 1},
		{ID: "b", Price: 450000, Bedrooms: 3},
		{ID: "c", Price: 500000, Bedrooms: 4},
	}}
	store := memory.NewQuotaStore()
	svc := newService(scanner, store)

	if _, err := svc.Search(context.Background(), "u1", "palermo", listing.Filters{}); err != nil {
		t.Fatal(err)
	}
	before, _ := store.Get(context.Background(), "u1", fixedNow())

	view, err := svc.SetFilters(context.Background(), "u1", listing.Filters{Bedrooms: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if scanner.calls != 1 {
		t.Errorf("filter change must not refetch; scanner called %d times", scanner.calls)
	}
	if view.Total != 2 || view.Shown != 2 {
		t.Errorf("filtered view = total %d shown %d; want 2/2", view.Total, view.Shown)
	}
	after, _ := store.Get(context.Background(), "u1", fixedNow())
	if after.Count != before.Count {
		t.Errorf("filter change consumed quota: %d -> %d", before.Count, after.Count)
	}
}

func TestCreditsExtendAllotment(t *testing.T) {
	store := memory.NewQuotaStore()
	seed := quota.DailyCounter{Count: quota.FreeDailyLimit, Date: fixedNow().Format(quota.DayFormat)}
	store.Put(context.Background(), "u1", seed)

	users := memory.NewUserRepository()
	seedUser(t, users, "u1", 5)

	svc := newService(&stubScanner{listings: listingsN(8)}, store)
	svc.Users = users
	view, err := svc.Search(context.Background(), "u1", "palermo", listing.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if view.Shown != 5 {
		t.Errorf("credits should extend the allotment; shown = %d, want 5", view.Shown)
	}
}

func TestConsumeQuotaGrantsUpToRemaining(t *testing.T) {
	store := memory.NewQuotaStore()
	seed := quota.DailyCounter{Count: 8, Date: fixedNow().Format(quota.DayFormat)}
	store.Put(context.Background(), "u1", seed)

	svc := newService(&stubScanner{}, store)
	granted, err := svc.ConsumeQuota(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if granted != 2 {
		t.Errorf("granted = %d; want 2", granted)
	}
}
