package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storemap/internal/core/domain"
	"storemap/internal/core/ports"
	"storemap/internal/core/services/location"
	"storemap/internal/core/services/rank"
	"storemap/internal/core/services/reconcile"
	"storemap/internal/geo"
	"storemap/internal/telemetry"
)

// Loop owns the recurring fetch-reconcile-rank cycle. Each tick pulls the
// live source, merges it with the static snapshot, ranks the merged set by
// distance from the resolved origin, and publishes the ordering. The
// published result is always the output of a complete cycle, never a partial
// merge.
//
// Live fetch failures are recoverable: the loop keeps serving the most
// recent successful ordering (static-only on the very first failure) and
// retries on the next tick. There is no retry cutoff; the loop runs until
// its context is cancelled.
type Loop struct {
	static     ports.ListingSource
	live       ports.ListingSource
	reconciler *reconcile.Reconciler
	resolver   *location.Resolver
	publisher  ports.Publisher
	interval   time.Duration
	logger     *slog.Logger

	trigger chan struct{}

	mu           sync.RWMutex
	staticSnap   []domain.Listing
	merged       []domain.Listing
	result       []domain.RankedListing
	loading      bool
	cycles       uint64
	publishedSeq uint64
	issuedSeq    uint64
	lastRefresh  time.Time
	lastFetchErr string
}

// NewLoop creates a refresh loop. publisher may be nil.
func NewLoop(static, live ports.ListingSource, reconciler *reconcile.Reconciler, resolver *location.Resolver, publisher ports.Publisher, interval time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		static:     static,
		live:       live,
		reconciler: reconciler,
		resolver:   resolver,
		publisher:  publisher,
		interval:   interval,
		logger:     logger,
		trigger:    make(chan struct{}, 1),
	}
}

// Run executes the loop until ctx is cancelled. The first cycle starts
// immediately. Cycles run one at a time on this goroutine; a tick or manual
// trigger arriving while a cycle is in flight is coalesced, never run in
// parallel.
func (l *Loop) Run(ctx context.Context) {
	l.loadStatic(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.runCycle(ctx)
		case <-l.trigger:
			l.runCycle(ctx)
		}
	}
}

// TriggerRefresh requests an immediate cycle. Returns false when a cycle is
// already in flight or pending; the request is skipped rather than queued a
// second time.
func (l *Loop) TriggerRefresh() bool {
	if l.IsLoading() {
		return false
	}
	select {
	case l.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Result returns the most recently published ordering.
func (l *Loop) Result() []domain.RankedListing {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.RankedListing, len(l.result))
	copy(out, l.result)
	return out
}

// IsLoading reports whether a cycle is in flight.
func (l *Loop) IsLoading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// RankFrom ranks the current merged set against a caller-supplied origin,
// without touching the published ordering.
func (l *Loop) RankFrom(origin geo.Location) []domain.RankedListing {
	l.mu.RLock()
	merged := make([]domain.Listing, len(l.merged))
	copy(merged, l.merged)
	l.mu.RUnlock()
	return rank.ByDistance(merged, origin)
}

// Status reports loop counters for the status endpoint.
func (l *Loop) Status() ports.RefreshStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return ports.RefreshStatus{
		Cycles:         l.cycles,
		LastRefresh:    l.lastRefresh,
		LastFetchErr:   l.lastFetchErr,
		Origin:         l.resolver.Resolve(),
		OriginFallback: l.resolver.UsedFallback(),
		Listings:       len(l.result),
	}
}

// loadStatic pulls the static snapshot once. The snapshot is read-only for
// the lifetime of the loop.
func (l *Loop) loadStatic(ctx context.Context) {
	snap, err := l.static.Fetch(ctx)
	if err != nil {
		l.logger.Error("failed to load static listings", "error", err)
		snap = nil
	}
	l.mu.Lock()
	l.staticSnap = snap
	l.mu.Unlock()
}

// runCycle executes one complete fetch-reconcile-rank pass. A failed live
// fetch leaves the previous result untouched.
func (l *Loop) runCycle(ctx context.Context) {
	seq := l.beginCycle()
	start := time.Now()

	liveSnap, err := l.live.Fetch(ctx)
	if err != nil {
		telemetry.LiveFetchErrors.Inc()
		telemetry.RefreshCycles.WithLabelValues("fetch_error").Inc()
		l.logger.Warn("live fetch failed, keeping previous ordering",
			"error", err,
			"source", l.live.Name())
		l.endCycle(seq, err)
		if seq == 1 {
			// Very first cycle: serve the static set alone rather than
			// nothing at all.
			l.publishStaticOnly(seq)
		}
		return
	}

	l.mu.RLock()
	staticSnap := l.staticSnap
	l.mu.RUnlock()

	merged := l.reconciler.Reconcile(staticSnap, liveSnap)
	ranked := rank.ByDistance(merged, l.resolver.Resolve())

	if l.publish(seq, merged, ranked) {
		telemetry.RefreshCycles.WithLabelValues("ok").Inc()
		telemetry.CycleDuration.Observe(time.Since(start).Seconds())
		l.logger.Debug("refresh cycle published",
			"cycle", seq,
			"live", len(liveSnap),
			"static", len(staticSnap),
			"merged", len(merged),
			"took", time.Since(start))
	} else {
		telemetry.RefreshCycles.WithLabelValues("stale").Inc()
	}
	l.endCycle(seq, nil)
}

func (l *Loop) beginCycle() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = true
	l.issuedSeq++
	return l.issuedSeq
}

func (l *Loop) endCycle(seq uint64, fetchErr error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if fetchErr != nil {
		l.lastFetchErr = fetchErr.Error()
	} else {
		l.lastFetchErr = ""
	}
}

// publish installs a cycle's output unless a newer cycle already published.
func (l *Loop) publish(seq uint64, merged []domain.Listing, ranked []domain.RankedListing) bool {
	l.mu.Lock()
	if seq <= l.publishedSeq {
		l.mu.Unlock()
		return false
	}
	l.publishedSeq = seq
	l.merged = merged
	l.result = ranked
	l.cycles++
	l.lastRefresh = time.Now()
	l.mu.Unlock()

	telemetry.PublishedListings.Set(float64(len(ranked)))
	if l.publisher != nil {
		l.publisher.PublishListings(ranked)
	}
	return true
}

func (l *Loop) publishStaticOnly(seq uint64) {
	l.mu.RLock()
	staticSnap := l.staticSnap
	l.mu.RUnlock()

	merged := l.reconciler.Reconcile(staticSnap, nil)
	ranked := rank.ByDistance(merged, l.resolver.Resolve())
	l.publish(seq, merged, ranked)
}
