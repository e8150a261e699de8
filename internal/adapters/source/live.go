package source

import (
	"context"
	"fmt"

	"storemap/internal/core/domain"
	"storemap/internal/core/ports"
)

// LiveSource reads the live listing collection from storage. Each fetch
// returns whatever the database currently holds; the previous snapshot is
// not consulted.
type LiveSource struct {
	store ports.Storage
}

// NewLiveSource creates a live source backed by the given storage.
func NewLiveSource(store ports.Storage) *LiveSource {
	return &LiveSource{store: store}
}

// Fetch pulls the current live set.
func (s *LiveSource) Fetch(ctx context.Context) ([]domain.Listing, error) {
	listings, err := s.store.GetLiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("live fetch: %w", err)
	}
	return listings, nil
}

// Name identifies this source in logs.
func (s *LiveSource) Name() string { return "live" }
