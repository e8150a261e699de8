package domain

import (
	"fmt"
	"strings"

	"storemap/internal/geo"
)

// Source identifies which collection a listing came from. Higher values win
// when two records resolve to the same dedup key.
type Source int

const (
	// SourceStatic is the bundled baseline dataset.
	SourceStatic Source = iota
	// SourceLive is the collection fetched from the database at runtime.
	SourceLive
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Listing represents a single store/shop entry from either source.
type Listing struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	PlaceID   string  `json:"place_id,omitempty"`
	Source    Source  `json:"-"`
}

// Location returns the listing's coordinate pair.
func (l Listing) Location() geo.Location {
	return geo.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

// RankedListing is a Listing annotated with its distance from the origin.
// Recomputed on every ranking pass, never persisted.
type RankedListing struct {
	Listing
	DistanceKm float64 `json:"distance_km"`
}

// KeyTier identifies which identity signal produced a dedup key.
type KeyTier int

const (
	// TierPlace keys on an external place registry identifier.
	TierPlace KeyTier = iota
	// TierGeo keys on a rounded coordinate pair.
	TierGeo
	// TierText keys on normalized name/address/city. Weakest signal: two
	// genuinely distinct sparse records can collide here. Kept lossy on
	// purpose; usage is counted so data-quality regressions show up.
	TierText
)

func (t KeyTier) String() string {
	switch t {
	case TierPlace:
		return "place"
	case TierGeo:
		return "geo"
	case TierText:
		return "text"
	default:
		return "unknown"
	}
}

// DedupKey computes the identity key used to detect that two records describe
// the same physical store, and reports which signal tier produced it.
//
// Tiers, strongest first: external place ID, coordinate rounded to 5 decimal
// places, then normalized name/address/city text. A place ID outranks
// coordinates because two distinct stores can share a building but never a
// registry entry.
func (l Listing) DedupKey() (string, KeyTier) {
	if l.PlaceID != "" {
		return "place:" + l.PlaceID, TierPlace
	}
	if l.Latitude != 0 && l.Longitude != 0 {
		return fmt.Sprintf("geo:%.5f_%.5f", geo.Round5(l.Latitude), geo.Round5(l.Longitude)), TierGeo
	}
	return "name:" + normalize(l.Name) + "|addr:" + normalize(l.Address) + "|city:" + normalize(l.City), TierText
}

// normalize lowercases and strips all whitespace so cosmetic differences in
// the text fields do not defeat matching.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
