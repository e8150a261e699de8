package mock

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"storemap/internal/core/domain"
	"storemap/internal/core/ports"
	"storemap/internal/geo"
)

// Store names for realistic mock data
var storeNames = []string{
	"Green Garden", "Hemp Harbor", "La Feuille d'Or", "CBD Central",
	"Chanvre Bleu", "Leaf & Co", "Herbal House", "Le Comptoir Vert",
	"Nature's Best", "Urban Hemp", "Canna Corner", "Pure Plant",
}

var streetNames = []string{
	"Rue de la République", "Avenue Victor Hugo", "Boulevard Saint-Michel",
	"Rue du Commerce", "Place de la Mairie", "Rue des Lilas",
	"Avenue Jean Jaurès", "Rue Pasteur",
}

var cityNames = []string{
	"Paris", "Lyon", "Marseille", "Bordeaux", "Toulouse", "Lille", "Nantes",
}

// Generator periodically rewrites the live listing set with randomized
// records scattered around an origin, simulating a live database other
// actors keep editing. Used with the -mock flag.
type Generator struct {
	store  ports.Storage
	origin geo.Location
	count  int
	rng    *rand.Rand
	logger *slog.Logger
}

// NewGenerator creates a mock feed writing count listings around origin.
func NewGenerator(store ports.Storage, origin geo.Location, count int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if count <= 0 {
		count = 20
	}
	return &Generator{
		store:  store,
		origin: origin,
		count:  count,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// Run seeds the live set immediately and then churns it every interval until
// ctx is cancelled.
func (g *Generator) Run(ctx context.Context, interval time.Duration) {
	if err := g.store.ReplaceLiveListings(ctx, g.generate()); err != nil {
		g.logger.Error("mock feed seed failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.store.ReplaceLiveListings(ctx, g.generate()); err != nil {
				g.logger.Error("mock feed update failed", "error", err)
			}
		}
	}
}

func (g *Generator) generate() []domain.Listing {
	listings := make([]domain.Listing, 0, g.count)
	for i := 0; i < g.count; i++ {
		// Scatter within roughly 20 km of the origin.
		lat := g.origin.Latitude + (g.rng.Float64()-0.5)*0.35
		lng := g.origin.Longitude + (g.rng.Float64()-0.5)*0.35

		l := domain.Listing{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("%s %d", storeNames[g.rng.Intn(len(storeNames))], g.rng.Intn(90)+10),
			Address:   fmt.Sprintf("%d %s", g.rng.Intn(120)+1, streetNames[g.rng.Intn(len(streetNames))]),
			City:      cityNames[g.rng.Intn(len(cityNames))],
			Latitude:  lat,
			Longitude: lng,
			Source:    domain.SourceLive,
		}

		// Roughly a third of records carry a place registry ID.
		if g.rng.Intn(3) == 0 {
			l.PlaceID = "mock-" + uuid.NewString()[:8]
		}

		listings = append(listings, l)
	}
	return listings
}
