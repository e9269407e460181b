package ports

import (
	"context"
	"time"

	"neurasec/internal/domain"
)

// CacheRepository is the reputation cache keyed by normalized URL. Callers
// pass now explicitly so freshness follows the application clock.
type CacheRepository interface {
	// GetCached returns the row only while expires_at > now.
	GetCached(ctx context.Context, url string, now time.Time) (domain.ScanResult, bool, error)
	// PutCached upserts r, overwriting every field of an existing row.
	PutCached(ctx context.Context, r domain.ScanResult) error
	// EvictExpired deletes rows whose expires_at is before cutoff.
	EvictExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryRepository is the append-only scan audit log.
type HistoryRepository interface {
	AppendHistory(ctx context.Context, e domain.HistoryEntry) error
	// ListHistory returns the newest rows for url first.
	ListHistory(ctx context.Context, url string, limit int) ([]domain.HistoryEntry, error)
}

// FeedbackRepository keeps one counter per (url, verdict) plus the raw votes.
type FeedbackRepository interface {
	RecordFeedback(ctx context.Context, v domain.FeedbackVote) error
	FeedbackCounts(ctx context.Context, url string) (map[domain.Verdict]int, error)
}

// CounterStore backs the fixed-window rate limiter. Increment returns the
// count for key including this request, starting a new window at now
// when the previous one has elapsed.
type CounterStore interface {
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
}

// CounterPruner drops counters whose window has ended.
type CounterPruner interface {
	PruneCounters(ctx context.Context, now time.Time, window time.Duration) (int64, error)
}

// Store is a storage backend that serves every repository.
type Store interface {
	CacheRepository
	HistoryRepository
	FeedbackRepository
	CounterStore
	CounterPruner
	Ping(ctx context.Context) error
	Close() error
}
