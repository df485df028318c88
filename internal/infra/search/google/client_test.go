package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentradar/internal/app/scan"
)

func TestSearchMapsItems(t *testing.T) {
	var gotQuery, gotNum string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"title": "Depto 2 amb Palermo",
					"snippet": "Alquiler $450.000 Tel: 11-2345-6789",
					"link": "https://example.com/depto-1",
					"pagemap": {
						"cse_image": [{"src": "https://img.example.com/1.jpg"}],
						"metatags": [{"og:image": "https://img.example.com/og.jpg"}]
					}
				},
				{
					"title": "Monoambiente Belgrano",
					"snippet": "Alquiler centrico",
					"link": "https://example.com/depto-2"
				}
			]
		}`))
	}))
	defer server.Close()

	client := &Client{Key: "k", EngineID: "cx", Endpoint: server.URL}
	results, err := client.Search(context.Background(), "palermo alquiler", 10)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "palermo alquiler" || gotNum != "10" {
		t.Errorf("request params q=%q num=%q", gotQuery, gotNum)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d; want 2", len(results))
	}
	first := results[0]
	if first.Title != "Depto 2 amb Palermo" || first.Link != "https://example.com/depto-1" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if len(first.Images) != 2 || first.Images[0] != "https://img.example.com/1.jpg" {
		t.Errorf("images = %v; want cse_image then og:image", first.Images)
	}
	if len(results[1].Images) != 0 {
		t.Errorf("second result should carry no images: %v", results[1].Images)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &Client{Key: "k", EngineID: "cx", Endpoint: server.URL}
	_, err := client.Search(context.Background(), "palermo", 10)

	var upstream *scan.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v; want UpstreamError", err)
	}
	if upstream.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d; want 429", upstream.Status)
	}
}

func TestSearchRequiresCredentials(t *testing.T) {
	client := &Client{}
	if _, err := client.Search(context.Background(), "palermo", 10); !errors.Is(err, scan.ErrNotConfigured) {
		t.Errorf("err = %v; want ErrNotConfigured", err)
	}
}
