package listing

import "testing"

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		found bool
	}{
		{"Tel: 11-2345-6789", "+54 9 11 2345-6789", true},
		{"Llamar al +54 9 11 4567 8901", "+54 9 11 4567-8901", true},
		{"Contacto: 351 1234 5678", "+54 9 351 1234-5678", true},
		{"WhatsApp 2914 5678-1234 disponible", "+54 9 2914 5678-1234", true},
		{"Departamento 2 ambientes, sin telefono", "", false},
		{"", "", false},
		{"precio 123", "", false},
	}
	for _, tt := range tests {
		got, found := ExtractPhone(tt.text)
		if found != tt.found {
			t.Errorf("ExtractPhone(%q) found = %v; want %v", tt.text, found, tt.found)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractPhone(%q) = %q; want %q", tt.text, got, tt.want)
		}
	}
}

func TestDedupeImages(t *testing.T) {
	in := []string{
		"https://a.example/1.jpg",
		"https://a.example/1.jpg",
		"",
		"https://a.example/2.jpg",
		"https://a.example/3.jpg",
		"https://a.example/4.jpg",
		"https://a.example/5.jpg",
		"https://a.example/6.jpg",
	}
	got := DedupeImages(in)
	if len(got) != MaxImages {
		t.Fatalf("expected cap at %d images, got %d", MaxImages, len(got))
	}
	seen := map[string]bool{}
	for _, u := range got {
		if seen[u] {
			t.Errorf("duplicate image survived dedupe: %s", u)
		}
		seen[u] = true
	}
	if got[0] != "https://a.example/1.jpg" || got[1] != "https://a.example/2.jpg" {
		t.Errorf("dedupe did not preserve order: %v", got)
	}
}

func TestHostname(t *testing.T) {
	if got := Hostname("https://www.zonaprop.com.ar/depto-123.html"); got != "www.zonaprop.com.ar" {
		t.Errorf("Hostname = %q", got)
	}
	if got := Hostname("not a url"); got != "not a url" {
		t.Errorf("Hostname fallback = %q", got)
	}
}
