package scan

import (
	"context"
	"testing"
	"time"

	"rentradar/internal/domain/listing"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestFormatterBuildsListing(t *testing.T) {
	f := Formatter{Now: fixedNow}
	raw := []RawResult{{
		Title:   "Depto 2 amb en Palermo",
		Snippet: "Hermoso departamento. Tel: 11-2345-6789. Consultas por WhatsApp.",
		Link:    "https://www.zonaprop.com.ar/depto-123.html",
		Images: []string{
			"https://img.example/1.jpg",
			"https://img.example/1.jpg",
			"https://img.example/2.jpg",
		},
	}}

	got, err := f.Structure(context.Background(), "palermo", raw)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}
	l := got[0]
	if l.ID != raw[0].Link || l.URL != raw[0].Link {
		t.Errorf("id/url should be the source link, got %q / %q", l.ID, l.URL)
	}
	if l.Price != 0 || l.Currency != listing.DefaultCurrency {
		t.Errorf("expected unknown price in ARS, got %d %s", l.Price, l.Currency)
	}
	if l.Bedrooms != 1 || l.Bathrooms != 1 {
		t.Errorf("expected default 1/1 rooms, got %d/%d", l.Bedrooms, l.Bathrooms)
	}
	if l.Location != "palermo" {
		t.Errorf("location should echo the query, got %q", l.Location)
	}
	if l.Source != "www.zonaprop.com.ar" {
		t.Errorf("source = %q", l.Source)
	}
	if len(l.Images) != 2 {
		t.Errorf("expected deduped images, got %v", l.Images)
	}
	if l.Contact == nil || l.Contact.Phone != "+54 9 11 2345-6789" || l.Contact.Source != listing.ContactSourceText {
		t.Errorf("contact = %+v", l.Contact)
	}
	if l.AIAnalysis.FraudScore != 0 || l.AIAnalysis.Summary == "" {
		t.Errorf("expected neutral analysis, got %+v", l.AIAnalysis)
	}
	if !l.PostedAt.Equal(fixedNow()) {
		t.Errorf("postedAt = %v", l.PostedAt)
	}
}

func TestFormatterNoPhone(t *testing.T) {
	f := Formatter{Now: fixedNow}
	got, err := f.Structure(context.Background(), "caballito", []RawResult{{
		Title:   "Nota inmobiliaria",
		Snippet: "El mercado subio 12% este mes",
		Link:    "https://news.example/nota",
	}})
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if got[0].Contact != nil {
		t.Errorf("expected no contact, got %+v", got[0].Contact)
	}
}

func TestFormatterImageCap(t *testing.T) {
	images := make([]string, 0, 8)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		images = append(images, "https://img.example/"+s+".jpg")
	}
	f := Formatter{Now: fixedNow}
	got, _ := f.Structure(context.Background(), "q", []RawResult{{Link: "https://x.example", Images: images}})
	if len(got[0].Images) != listing.MaxImages {
		t.Errorf("expected %d images, got %d", listing.MaxImages, len(got[0].Images))
	}
}
