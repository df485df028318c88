// Package gemini implements the generative structuring strategy on top of
// the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rentradar/internal/app/scan"
	"rentradar/internal/domain/listing"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Client asks the generative provider for a strict JSON array of listings.
// Malformed provider output degrades to zero listings; it is never a crash.
type Client struct {
	HTTP     *http.Client
	Key      string
	Endpoint string
	Logger   *slog.Logger
	Now      func() time.Time
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// structuredListing is the shape the prompt asks the model to emit.
type structuredListing struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Location    string   `json:"location"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Phone       string   `json:"phone"`
	URL         string   `json:"url"`
	Summary     string   `json:"summary"`
	PriceRating string   `json:"priceRating"`
	FraudScore  float64  `json:"fraudScore"`
}

func (c *Client) Structure(ctx context.Context, query string, raw []scan.RawResult) ([]listing.Listing, error) {
	if c.Key == "" {
		return nil, scan.ErrNotConfigured
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: c.prompt(query, raw)}}}},
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+c.Key, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(request)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log().Error("gemini returned error", "status", resp.StatusCode, "body", string(snippet))
		return nil, &scan.UpstreamError{Provider: "gemini", Status: resp.StatusCode}
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}

	text := firstText(payload)
	structured, ok := parseListingArray(text)
	if !ok {
		// No schema is enforced upstream; treat garbage as zero results.
		c.log().Warn("gemini emitted malformed listing JSON", "query", query, "chars", len(text))
		return []listing.Listing{}, nil
	}
	return c.toListings(query, structured), nil
}

func (c *Client) prompt(query string, raw []scan.RawResult) string {
	var b strings.Builder
	b.WriteString("You are structuring rental listings for the query ")
	fmt.Fprintf(&b, "%q.\n", query)
	b.WriteString("Return ONLY a JSON array, no prose, no markdown. Each element: ")
	b.WriteString(`{"title","description","price","location","bedrooms","bathrooms","amenities","images","phone","url","summary","priceRating","fraudScore"}.` + "\n")
	b.WriteString("Rules: estimate missing numeric fields instead of null; discard results that are sales listings or unrelated articles; ")
	b.WriteString("extract phone numbers from the text and reformat them as +54 9 AA BBBB-CCCC; ")
	b.WriteString("fraudScore is a likelihood in [0,1].\n\nSearch results:\n")
	for i, item := range raw {
		fmt.Fprintf(&b, "%d. title: %s\n   snippet: %s\n   url: %s\n", i+1, item.Title, item.Snippet, item.Link)
	}
	return b.String()
}

func (c *Client) toListings(query string, structured []structuredListing) []listing.Listing {
	now := time.Now().UTC()
	if c.Now != nil {
		now = c.Now()
	}
	out := make([]listing.Listing, 0, len(structured))
	for _, s := range structured {
		if strings.TrimSpace(s.URL) == "" {
			continue
		}
		l := listing.Listing{
			ID:          s.URL,
			Title:       s.Title,
			Description: s.Description,
			Price:       max64(s.Price, 0),
			Currency:    listing.DefaultCurrency,
			Location:    strings.TrimSpace(s.Location),
			Bedrooms:    atLeastOne(s.Bedrooms),
			Bathrooms:   atLeastOne(s.Bathrooms),
			Amenities:   s.Amenities,
			Images:      listing.DedupeImages(s.Images),
			Source:      listing.Hostname(s.URL),
			URL:         s.URL,
			AIAnalysis: listing.Analysis{
				Summary:     s.Summary,
				PriceRating: s.PriceRating,
				FraudScore:  clamp01(s.FraudScore),
			},
			PostedAt: now,
		}
		if l.Location == "" {
			l.Location = query
		}
		if l.Amenities == nil {
			l.Amenities = []string{}
		}
		if phone := strings.TrimSpace(s.Phone); phone != "" {
			l.Contact = &listing.Contact{Phone: phone, Source: listing.ContactSourceText}
		}
		out = append(out, l)
	}
	return out
}

func firstText(payload generateResponse) string {
	for _, cand := range payload.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

// parseListingArray decodes the model output, tolerating markdown fences
// and leading prose around the array.
func parseListingArray(text string) ([]structuredListing, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var out []structuredListing
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var _ scan.Structurer = (*Client)(nil)
