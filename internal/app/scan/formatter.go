package scan

import (
	"context"
	"time"

	"rentradar/internal/domain/listing"
)

// Fixed neutral analysis used when no generative structuring runs.
const (
	fallbackSummary     = "Resultado de búsqueda - Verifica los detalles en el enlace original"
	fallbackPriceRating = "Consultar"
)

// Formatter is the deterministic structuring strategy: no provider calls,
// regex phone extraction and default field values. Location is set to the
// query itself since the snippet carries no reliable address.
type Formatter struct {
	Now func() time.Time
}

func (f Formatter) Structure(_ context.Context, query string, raw []RawResult) ([]listing.Listing, error) {
	now := time.Now().UTC()
	if f.Now != nil {
		now = f.Now()
	}
	listings := make([]listing.Listing, 0, len(raw))
	for _, item := range raw {
		l := listing.Listing{
			ID:          item.Link,
			Title:       item.Title,
			Description: item.Snippet,
			Price:       0,
			Currency:    listing.DefaultCurrency,
			Location:    query,
			Bedrooms:    1,
			Bathrooms:   1,
			Amenities:   []string{},
			Images:      listing.DedupeImages(item.Images),
			Source:      listing.Hostname(item.Link),
			URL:         item.Link,
			AIAnalysis: listing.Analysis{
				Summary:     fallbackSummary,
				PriceRating: fallbackPriceRating,
				FraudScore:  0,
			},
			PostedAt: now,
		}
		if phone, ok := listing.ExtractPhone(item.Snippet); ok {
			l.Contact = &listing.Contact{Phone: phone, Source: listing.ContactSourceText}
		}
		listings = append(listings, l)
	}
	return listings, nil
}

var _ Structurer = Formatter{}
