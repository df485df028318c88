// Package google implements the external search provider on top of the
// Google Custom Search JSON API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"rentradar/internal/app/scan"
)

const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// Client calls the Custom Search API. Key and EngineID are the provider
// credentials; leaving either empty makes every call fail with
// scan.ErrNotConfigured.
type Client struct {
	HTTP     *http.Client
	Key      string
	EngineID string
	Endpoint string
	Logger   *slog.Logger
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Link    string  `json:"link"`
	Pagemap pagemap `json:"pagemap"`
}

type pagemap struct {
	CSEImage []cseImage          `json:"cse_image"`
	Metatags []map[string]string `json:"metatags"`
}

type cseImage struct {
	Src string `json:"src"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]scan.RawResult, error) {
	if c.Key == "" || c.EngineID == "" {
		return nil, scan.ErrNotConfigured
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("key", c.Key)
	params.Set("cx", c.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(request)
	if err != nil {
		c.logError("google search request failed", err)
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log().Error("google search returned error", "status", resp.StatusCode, "body", string(snippet))
		return nil, &scan.UpstreamError{Provider: "google search", Status: resp.StatusCode}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError("google search decode failed", err)
		return nil, fmt.Errorf("google search: decode response: %w", err)
	}

	results := make([]scan.RawResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, scan.RawResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
			Images:  item.Pagemap.imageURLs(),
		})
	}
	return results, nil
}

// imageURLs gathers candidate image URLs from the structured page metadata:
// cse_image sources first, then the first metatag og:image.
func (p pagemap) imageURLs() []string {
	var urls []string
	for _, img := range p.CSEImage {
		if img.Src != "" {
			urls = append(urls, img.Src)
		}
	}
	if len(p.Metatags) > 0 {
		if og := p.Metatags[0]["og:image"]; og != "" {
			urls = append(urls, og)
		}
	}
	return urls
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

func (c *Client) logError(msg string, err error) {
	c.log().Error(msg, "error", err)
}

var _ scan.SearchProvider = (*Client)(nil)
