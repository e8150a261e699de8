package ports

import (
	"context"

	"storemap/internal/core/domain"
)

// Storage defines the behavior for listing persistence.
type Storage interface {
	// GetLiveListings retrieves the current live listing set.
	GetLiveListings(ctx context.Context) ([]domain.Listing, error)

	// ReplaceLiveListings swaps the stored live set wholesale. The previous
	// set is discarded, never patched incrementally.
	ReplaceLiveListings(ctx context.Context, listings []domain.Listing) error

	// SaveSnapshot persists a baseline snapshot that overrides the embedded
	// seed on the next startup.
	SaveSnapshot(ctx context.Context, listings []domain.Listing) error

	// LoadSnapshot returns the persisted baseline snapshot, or an empty
	// slice if none has been saved.
	LoadSnapshot(ctx context.Context) ([]domain.Listing, error)

	// Close closes the storage connection.
	Close() error
}
