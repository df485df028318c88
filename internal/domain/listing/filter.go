package listing

import (
	"strconv"
	"strings"
)

// openBedroomThreshold: a bedroom filter at this value means "this many or
// more" instead of an exact match.
const openBedroomThreshold = 3

// Filters narrows a fetched listing set. Zero values leave the dimension
// unfiltered.
type Filters struct {
	// PriceRange is either "min-max" (inclusive) or "<min>+" for an open
	// upper bound, e.g. "300000-600000" or "600000+".
	PriceRange string `json:"priceRange"`
	// Bedrooms is the exact bedroom count as a string; "3" matches three
	// or more.
	Bedrooms string `json:"bedrooms"`
}

// IsZero reports whether no filter dimension is active.
func (f Filters) IsZero() bool { return f.PriceRange == "" && f.Bedrooms == "" }

// Apply returns the listings matching every active filter dimension, in the
// original order. The input slice is never mutated.
func (f Filters) Apply(in []Listing) []Listing {
	if f.IsZero() {
		return append([]Listing(nil), in...)
	}
	out := make([]Listing, 0, len(in))
	for _, l := range in {
		if f.matches(l) {
			out = append(out, l)
		}
	}
	return out
}

func (f Filters) matches(l Listing) bool {
	if f.PriceRange != "" && !matchPrice(f.PriceRange, l.Price) {
		return false
	}
	if f.Bedrooms != "" && !matchBedrooms(f.Bedrooms, l.Bedrooms) {
		return false
	}
	return true
}

func matchPrice(rangeSpec string, price int64) bool {
	rangeSpec = strings.TrimSpace(rangeSpec)
	if open, ok := strings.CutSuffix(rangeSpec, "+"); ok {
		min, err := strconv.ParseInt(open, 10, 64)
		if err != nil {
			return true
		}
		return price >= min
	}
	lo, hi, ok := strings.Cut(rangeSpec, "-")
	if !ok {
		return true
	}
	min, errLo := strconv.ParseInt(lo, 10, 64)
	max, errHi := strconv.ParseInt(hi, 10, 64)
	if errLo != nil || errHi != nil {
		return true
	}
	return price >= min && price <= max
}

func matchBedrooms(spec string, bedrooms int) bool {
	want, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return true
	}
	if want >= openBedroomThreshold {
		return bedrooms >= want
	}
	return bedrooms == want
}
