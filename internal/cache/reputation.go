package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/domain"
	"neurasec/internal/logger"
	"neurasec/internal/ports"
)

const (
	DefaultTTL   = 6 * time.Hour
	DefaultGrace = 24 * time.Hour
)

// Reputation applies the freshness policy on top of a CacheRepository.
// Storage failures are logged and reported as misses.
type Reputation struct {
	repo  ports.CacheRepository
	clock clockwork.Clock
	ttl   time.Duration
	grace time.Duration
}

func New(repo ports.CacheRepository, clock clockwork.Clock, ttl, grace time.Duration) *Reputation {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if grace < 0 {
		grace = DefaultGrace
	}
	return &Reputation{repo: repo, clock: clock, ttl: ttl, grace: grace}
}

// Get returns a fresh entry for url, marked FromCache.
func (c *Reputation) Get(ctx context.Context, url string) (domain.ScanResult, bool) {
	r, ok, err := c.repo.GetCached(ctx, url, c.clock.Now())
	if err != nil {
		logger.FromContext(ctx).Warn("reputation cache read failed",
			slog.String("url", url), slog.Any("error", err))
		return domain.ScanResult{}, false
	}
	if !ok {
		return domain.ScanResult{}, false
	}
	r.FromCache = true
	return r, true
}

// Put stamps fetched_at and expires_at on r and upserts it. Results that
// are not cacheable are ignored.
func (c *Reputation) Put(ctx context.Context, r domain.ScanResult) error {
	if !r.Cacheable() {
		return nil
	}
	now := c.clock.Now()
	r.FetchedAt = now
	r.ExpiresAt = now.Add(c.ttl)
	r.FromCache = false
	r.CommunityFeedback = nil
	r.CommunityAdvisory = false
	return c.repo.PutCached(ctx, r)
}

// EvictExpired deletes rows that expired more than the grace period ago.
func (c *Reputation) EvictExpired(ctx context.Context) (int64, error) {
	return c.repo.EvictExpired(ctx, c.clock.Now().Add(-c.grace))
}

func (c *Reputation) TTL() time.Duration { return c.ttl }
