package location

import (
	"log/slog"
	"sync"

	"storemap/internal/geo"
)

// Resolver resolves the origin coordinate once and serves it read-only for
// the lifetime of the process. If the primary provider fails, a fixed
// fallback coordinate is substituted and the failure is kept as a warning,
// never raised as a fatal error.
type Resolver struct {
	primary  geo.Provider
	fallback geo.Location
	logger   *slog.Logger

	once         sync.Once
	resolved     geo.Location
	usedFallback bool
}

// NewResolver creates a Resolver. primary may be nil, in which case the
// fallback is used directly.
func NewResolver(primary geo.Provider, fallback geo.Location, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve returns the origin coordinate, resolving it on first call.
// Subsequent calls return the same value.
func (r *Resolver) Resolve() geo.Location {
	r.once.Do(func() {
		if r.primary == nil {
			r.resolved = r.fallback
			r.usedFallback = true
			return
		}
		loc, err := r.primary.GetLocation()
		if err != nil {
			r.logger.Warn("location resolution failed, using fallback",
				"error", err,
				"fallback_lat", r.fallback.Latitude,
				"fallback_lng", r.fallback.Longitude)
			r.resolved = r.fallback
			r.usedFallback = true
			return
		}
		r.resolved = loc
	})
	return r.resolved
}

// UsedFallback reports whether the fallback coordinate was substituted.
// Informational only; meaningful after the first Resolve call.
func (r *Resolver) UsedFallback() bool {
	r.Resolve()
	return r.usedFallback
}
