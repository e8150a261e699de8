package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "embed"

	"storemap/internal/core/domain"
	"storemap/internal/core/ports"
)

// placeholderName is a display-only record shipped with the seed dataset for
// demos. It is filtered out of every snapshot served to the reconciler.
const placeholderName = "Boutique Démo"

//go:embed seed.json
var embeddedSeed []byte

// StaticSource serves the baseline listing set. The embedded seed is the
// default; a seed file on disk or a snapshot persisted in storage overrides
// it at startup. The snapshot is loaded once and then read-only.
type StaticSource struct {
	listings []domain.Listing
	logger   *slog.Logger
}

// NewStaticSource builds the static source. seedPath optionally points at a
// seed file overriding the embedded dataset. If store is non-nil and holds a
// persisted snapshot, that snapshot wins over both.
func NewStaticSource(ctx context.Context, seedPath string, store ports.Storage, logger *slog.Logger) (*StaticSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	raw := embeddedSeed
	if seedPath != "" {
		data, err := os.ReadFile(seedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", seedPath, err)
		}
		raw = data
	}

	listings, err := parseSeed(raw)
	if err != nil {
		return nil, err
	}

	if store != nil {
		snapshot, err := store.LoadSnapshot(ctx)
		if err != nil {
			logger.Warn("could not load persisted snapshot, using seed", "error", err)
		} else if len(snapshot) > 0 {
			logger.Info("baseline overridden by persisted snapshot", "listings", len(snapshot))
			listings = snapshot
		}
	}

	return &StaticSource{
		listings: filterPlaceholders(listings),
		logger:   logger,
	}, nil
}

// Fetch returns an independent copy of the baseline set.
func (s *StaticSource) Fetch(_ context.Context) ([]domain.Listing, error) {
	out := make([]domain.Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

// Name identifies this source in logs.
func (s *StaticSource) Name() string { return "static" }

func parseSeed(raw []byte) ([]domain.Listing, error) {
	var records []struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Address string  `json:"address"`
		City    string  `json:"city"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
		PlaceID string  `json:"place_id"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed dataset: %w", err)
	}

	listings := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, domain.Listing{
			ID:        r.ID,
			Name:      r.Name,
			Address:   r.Address,
			City:      r.City,
			Latitude:  r.Lat,
			Longitude: r.Lng,
			PlaceID:   r.PlaceID,
			Source:    domain.SourceStatic,
		})
	}
	return listings, nil
}

func filterPlaceholders(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Name == placeholderName {
			continue
		}
		l.Source = domain.SourceStatic
		out = append(out, l)
	}
	return out
}
