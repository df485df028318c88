package listing

import (
	"net/url"
	"strings"
	"time"
)

// DefaultCurrency is the only currency listings are quoted in.
const DefaultCurrency = "ARS"

// MaxImages caps how many image URLs a listing carries.
const MaxImages = 5

const (
	ContactSourceText  = "text"
	ContactSourceImage = "image"
)

// Contact holds an extracted way to reach the poster.
type Contact struct {
	Phone  string `json:"phone" bson:"phone"`
	Source string `json:"source" bson:"source"`
}

// Analysis is the per-listing quality assessment, either provider generated
// or the fixed neutral fallback.
type Analysis struct {
	Summary     string  `json:"summary" bson:"summary"`
	PriceRating string  `json:"priceRating" bson:"price_rating"`
	FraudScore  float64 `json:"fraudScore" bson:"fraud_score"`
}

// Listing is a structured rental offer derived from a search result. The id
// is the source URL. Price 0 means the price is unknown ("consult"); any
// positive value is a known price.
type Listing struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Price       int64     `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Location    string    `json:"location" bson:"location"`
	Bedrooms    int       `json:"bedrooms" bson:"bedrooms"`
	Bathrooms   int       `json:"bathrooms" bson:"bathrooms"`
	Amenities   []string  `json:"amenities" bson:"amenities"`
	Images      []string  `json:"images" bson:"images"`
	Contact     *Contact  `json:"contact,omitempty" bson:"contact,omitempty"`
	Source      string    `json:"source" bson:"source"`
	URL         string    `json:"url" bson:"url"`
	AIAnalysis  Analysis  `json:"aiAnalysis" bson:"ai_analysis"`
	PostedAt    time.Time `json:"postedAt" bson:"posted_at"`
}

// HasKnownPrice reports whether the price field is meaningful.
func (l Listing) HasKnownPrice() bool { return l.Price > 0 }

// Hostname extracts the host part of a listing URL. Returns the raw input
// when it does not parse as a URL.
func Hostname(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// DedupeImages returns the input URLs with duplicates removed, order
// preserved, capped at MaxImages. Blank entries are dropped.
func DedupeImages(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, MaxImages)
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == MaxImages {
			break
		}
	}
	return out
}
