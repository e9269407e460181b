package sweeper

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/logger"
	"neurasec/internal/ports"
)

// Evictor removes cache rows past the grace window.
type Evictor interface {
	EvictExpired(ctx context.Context) (int64, error)
}

// Sweeper evicts stale cache rows and rate-limit counters on a fixed interval.
type Sweeper struct {
	cache    Evictor
	counters ports.CounterPruner
	window   time.Duration
	clock    clockwork.Clock
	interval time.Duration
}

// New returns a sweeper. counters may be nil.
func New(cache Evictor, counters ports.CounterPruner, window time.Duration, clock clockwork.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{cache: cache, counters: counters, window: window, clock: clock, interval: interval}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	log := logger.FromContext(ctx)
	n, err := s.cache.EvictExpired(ctx)
	if err != nil {
		log.Warn("cache eviction failed", slog.Any("error", err))
	} else if n > 0 {
		log.Info("evicted expired cache rows", slog.Int64("rows", n))
	}

	if s.counters == nil {
		return
	}
	pruned, err := s.counters.PruneCounters(ctx, s.clock.Now(), s.window)
	if err != nil {
		log.Warn("rate limit counter prune failed", slog.Any("error", err))
	} else if pruned > 0 {
		log.Debug("pruned rate limit counters", slog.Int64("rows", pruned))
	}
}

// Probabilistic evicts on a random fraction of requests instead of a schedule.
type Probabilistic struct {
	cache Evictor
	p     float64
	roll  func() float64
	wg    sync.WaitGroup
}

func NewProbabilistic(cache Evictor, p float64) *Probabilistic {
	return &Probabilistic{cache: cache, p: p, roll: rand.Float64}
}

// MaybeEvict starts a background eviction with probability p and reports
// whether it did.
func (e *Probabilistic) MaybeEvict(ctx context.Context) bool {
	if e.roll() >= e.p {
		return false
	}
	log := logger.FromContext(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if n, err := e.cache.EvictExpired(ctx); err != nil {
			log.Warn("cache eviction failed", slog.Any("error", err))
		} else if n > 0 {
			log.Info("evicted expired cache rows", slog.Int64("rows", n))
		}
	}()
	return true
}

// Wait blocks until in-flight evictions finish.
func (e *Probabilistic) Wait() { e.wg.Wait() }
