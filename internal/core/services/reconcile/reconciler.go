package reconcile

import (
	"log/slog"

	"storemap/internal/core/domain"
	"storemap/internal/telemetry"
)

// Reconciler merges the static and live listing snapshots into a single
// deduplicated set. Duplicates are detected by dedup key; when two records
// collide, the one from the higher-priority source wins whole, fields are
// never merged record-by-record.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// Reconcile merges both snapshots. Priority is carried explicitly on each
// listing's Source field, so the result does not depend on input order:
// for any colliding pair the live record wins regardless of which slice or
// position it arrived in. Output order is unspecified; the ranker imposes
// order downstream.
func (r *Reconciler) Reconcile(staticListings, liveListings []domain.Listing) []domain.Listing {
	winners := make(map[string]domain.Listing, len(staticListings)+len(liveListings))
	keyOrder := make([]string, 0, len(staticListings)+len(liveListings))
	processed := make(map[string]struct{}, len(staticListings)+len(liveListings))

	merge := func(listings []domain.Listing) {
		for _, l := range listings {
			// Guard against the same record appearing twice within one
			// source snapshot.
			selfKey := l.Source.String() + ":" + l.ID
			if _, dup := processed[selfKey]; dup {
				continue
			}
			processed[selfKey] = struct{}{}

			key, tier := l.DedupKey()
			if tier == domain.TierText {
				telemetry.WeakDedupKeys.Inc()
				r.logger.Debug("listing keyed by text fallback",
					"id", l.ID,
					"source", l.Source.String(),
					"key", key)
			}

			existing, claimed := winners[key]
			if !claimed {
				winners[key] = l
				keyOrder = append(keyOrder, key)
				continue
			}

			if l.Source > existing.Source {
				// Higher-priority source takes the key whole.
				winners[key] = l
				telemetry.DedupDropped.WithLabelValues(tier.String(), existing.Source.String()).Inc()
			} else {
				telemetry.DedupDropped.WithLabelValues(tier.String(), l.Source.String()).Inc()
			}
		}
	}

	merge(liveListings)
	merge(staticListings)

	out := make([]domain.Listing, 0, len(winners))
	for _, key := range keyOrder {
		out = append(out, winners[key])
	}
	return out
}
