package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentradar/internal/app/scan"
)

func TestParseListingArray(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		ok   bool
	}{
		{"plain array", `[{"url":"https://a.example","title":"A"}]`, 1, true},
		{"fenced array", "```json\n[{\"url\":\"https://a.example\"}]\n```", 1, true},
		{"leading prose", "Here are the listings:\n[{\"url\":\"https://a.example\"}]", 1, true},
		{"empty array", `[]`, 0, true},
		{"garbage", "I could not find any listings, sorry!", 0, false},
		{"truncated", `[{"url":"https://a.example"`, 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseListingArray(tt.text)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v; want %v", tt.name, ok, tt.ok)
			continue
		}
		if len(got) != tt.n {
			t.Errorf("%s: len = %d; want %d", tt.name, len(got), tt.n)
		}
	}
}

func TestStructureMalformedOutputIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"not json at all"}]}}]}`))
	}))
	defer srv.Close()

	c := &Client{Key: "test", Endpoint: srv.URL, Now: func() time.Time { return time.Unix(0, 0) }}
	got, err := c.Structure(context.Background(), "palermo", nil)
	if err != nil {
		t.Fatalf("malformed output must not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected zero listings, got %d", len(got))
	}
}

func TestStructureMapsFields(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"[{\"title\":\"Depto\",\"price\":350000,\"bedrooms\":0,\"fraudScore\":1.7,\"url\":\"https://a.example/1\",\"phone\":\"+54 9 11 2345-6789\"}]"}]}}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := &Client{Key: "test", Endpoint: srv.URL}
	got, err := c.Structure(context.Background(), "palermo", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}
	l := got[0]
	if l.Price != 350000 {
		t.Errorf("price = %d", l.Price)
	}
	if l.Bedrooms != 1 {
		t.Errorf("bedrooms should be floored at 1, got %d", l.Bedrooms)
	}
	if l.AIAnalysis.FraudScore != 1 {
		t.Errorf("fraud score should clamp to 1, got %f", l.AIAnalysis.FraudScore)
	}
	if l.Location != "palermo" {
		t.Errorf("missing location should fall back to the query, got %q", l.Location)
	}
	if l.Contact == nil || l.Contact.Phone != "+54 9 11 2345-6789" {
		t.Errorf("contact = %+v", l.Contact)
	}
}

func TestStructureUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{Key: "test", Endpoint: srv.URL}
	_, err := c.Structure(context.Background(), "palermo", nil)
	ue, ok := err.(*scan.UpstreamError)
	if !ok || ue.Status != http.StatusTooManyRequests {
		t.Errorf("expected upstream error 429, got %v", err)
	}
}

func TestStructureRequiresKey(t *testing.T) {
	c := &Client{}
	if _, err := c.Structure(context.Background(), "q", nil); err != scan.ErrNotConfigured {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
