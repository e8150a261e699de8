package ports

import (
	"context"
	"time"

	"storemap/internal/core/domain"
	"storemap/internal/geo"
)

// ListingSource supplies a snapshot of listings from one origin (static seed
// or live database). Each call returns a fresh, independent slice.
type ListingSource interface {
	Fetch(ctx context.Context) ([]domain.Listing, error)
	Name() string
}

// RefreshStatus describes the state of the refresh loop for status endpoints.
type RefreshStatus struct {
	Cycles         uint64       `json:"cycles"`
	LastRefresh    time.Time    `json:"last_refresh"`
	LastFetchErr   string       `json:"last_fetch_error,omitempty"`
	Origin         geo.Location `json:"origin"`
	OriginFallback bool         `json:"origin_fallback"`
	Listings       int          `json:"listings"`
}

// ListingService is the read model the web layer consumes.
type ListingService interface {
	// Result returns the most recently published ranked ordering.
	Result() []domain.RankedListing
	// IsLoading reports whether a refresh cycle is currently in flight.
	IsLoading() bool
	// TriggerRefresh requests an immediate refresh cycle. Returns false if a
	// cycle is already in flight (the request is skipped, not run twice).
	TriggerRefresh() bool
	// RankFrom ranks the current merged set against a caller-supplied origin.
	RankFrom(origin geo.Location) []domain.RankedListing
	// Status reports loop counters for the status endpoint.
	Status() RefreshStatus
}

// Publisher receives each completed refresh cycle's ordering, e.g. to push
// it to connected websocket clients.
type Publisher interface {
	PublishListings(listings []domain.RankedListing)
}
