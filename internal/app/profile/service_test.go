package profile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentradar/internal/app/profile"
	"rentradar/internal/domain/listing"
	"rentradar/internal/domain/user"
	"rentradar/internal/infra/storage/memory"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestService() (*profile.Service, *memory.UserRepository) {
	users := memory.NewUserRepository()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return &profile.Service{
		Store: memory.NewProfileStore(),
		Users: users,
		Now:   c.now,
	}, users
}

func TestSlugifyQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Palermo 2 ambientes", "palermo-2-ambientes"},
		{"  Belgrano  ", "belgrano"},
		{"depto\tcentro", "depto-centro"},
	}
	for _, tt := range tests {
		if got := profile.SlugifyQuery(tt.in); got != tt.want {
			t.Errorf("SlugifyQuery(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveAndUnsaveListing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.SaveListing(ctx, "u1", listing.Listing{}); !errors.Is(err, profile.ErrListingIDRequired) {
		t.Errorf("err = %v; want ErrListingIDRequired", err)
	}

	l := listing.Listing{ID: "https://example.com/depto-1", Title: "Depto 2 amb"}
	if err := svc.SaveListing(ctx, "u1", l); err != nil {
		t.Fatal(err)
	}
	isSaved, err := svc.IsListingSaved(ctx, "u1", l.ID)
	if err != nil || !isSaved {
		t.Fatalf("IsListingSaved = %v, %v; want true", isSaved, err)
	}

	if err := svc.UnsaveListing(ctx, "u1", l.ID); err != nil {
		t.Fatal(err)
	}
	isSaved, err = svc.IsListingSaved(ctx, "u1", l.ID)
	if err != nil || isSaved {
		t.Errorf("listing still saved after unsave")
	}
}

func TestSavedListingsNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := svc.SaveListing(ctx, "u1", listing.Listing{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	saved, err := svc.SavedListings(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 3 {
		t.Fatalf("len = %d; want 3", len(saved))
	}
	if saved[0].Listing.ID != "c" || saved[2].Listing.ID != "a" {
		t.Errorf("order = [%s %s %s]; want newest first", saved[0].Listing.ID, saved[1].Listing.ID, saved[2].Listing.ID)
	}
}

func TestRecordSearchMergesRepeats(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.RecordSearch(ctx, "u1", "Palermo 2 ambientes"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordSearch(ctx, "u1", "belgrano"); err != nil {
		t.Fatal(err)
	}
	// repeat with different casing and spacing merges into the same slug
	if err := svc.RecordSearch(ctx, "u1", "  palermo   2 AMBIENTES "); err != nil {
		t.Fatal(err)
	}

	searches, err := svc.RecentSearches(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(searches) != 2 {
		t.Fatalf("len = %d; want 2 (repeat merged)", len(searches))
	}
	if searches[0].Slug != "palermo-2-ambientes" {
		t.Errorf("refreshed search should be newest; got %q", searches[0].Slug)
	}
}

func TestClearRecentSearches(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.RecordSearch(ctx, "u1", "palermo"); err != nil {
		t.Fatal(err)
	}
	if err := svc.ClearRecentSearches(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	searches, err := svc.RecentSearches(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(searches) != 0 {
		t.Errorf("len = %d after clear; want 0", len(searches))
	}
}

func TestPreferencesDefaultForUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	prefs, err := svc.Preferences(context.Background(), "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Language != user.DefaultLanguage {
		t.Errorf("language = %q; want %q", prefs.Language, user.DefaultLanguage)
	}
}

func TestUpdatePreferences(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	u, err := user.New(user.CreateParams{UID: "u1", Now: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Save(ctx, u); err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdatePreferences(ctx, "u1", user.Preferences{Language: "en"}); err != nil {
		t.Fatal(err)
	}
	prefs, err := svc.Preferences(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Language != "en" {
		t.Errorf("language = %q; want en", prefs.Language)
	}

	if err := svc.UpdatePreferences(ctx, "ghost", user.Preferences{Language: "en"}); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}
