package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"

	"neurasec/internal/domain"
	"neurasec/internal/logger"
	"neurasec/internal/ports"
)

const writeTimeout = 5 * time.Second

// CacheWriter stores cacheable results.
type CacheWriter interface {
	Put(ctx context.Context, r domain.ScanResult) error
}

// Queue writes cache and history rows after the response has been sent.
// Failures are logged and dropped.
type Queue struct {
	cache   CacheWriter
	history ports.HistoryRepository
	clock   clockwork.Clock

	mu     sync.RWMutex
	jobs   chan ports.PersistJob
	closed bool
	wg     sync.WaitGroup
}

// New returns a queue holding up to size pending jobs. With size 0 every
// Enqueue writes synchronously.
func New(cache CacheWriter, history ports.HistoryRepository, clock clockwork.Clock, size int) *Queue {
	q := &Queue{cache: cache, history: history, clock: clock}
	if size > 0 {
		q.jobs = make(chan ports.PersistJob, size)
	}
	return q
}

// Start launches concurrency workers that drain the queue until Stop.
func (q *Queue) Start(concurrency int) {
	if q.jobs == nil || concurrency < 1 {
		return
	}
	for i := 0; i < concurrency; i++ {
		q.wg.Add(1)
		go func(idx int) {
			defer q.wg.Done()
			for job := range q.jobs {
				if err := q.Process(context.Background(), job); err != nil {
					logger.Get().Warn("persist failed",
						slog.Int("worker", idx),
						slog.String("url", job.Result.URL),
						slog.Any("error", err))
				}
			}
		}(i)
	}
}

// Enqueue never blocks. A full queue drops the job.
func (q *Queue) Enqueue(job ports.PersistJob) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.jobs == nil || q.closed {
		if err := q.Process(context.Background(), job); err != nil {
			logger.Get().Warn("persist failed", slog.String("url", job.Result.URL), slog.Any("error", err))
		}
		return
	}
	select {
	case q.jobs <- job:
	default:
		logger.Get().Warn("persist queue full, dropping job",
			slog.String("url", job.Result.URL),
			slog.Int("capacity", cap(q.jobs)))
	}
}

// Process performs the writes for one job.
func (q *Queue) Process(ctx context.Context, job ports.PersistJob) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var errs error
	if job.Cache {
		errs = multierr.Append(errs, q.cache.Put(ctx, job.Result))
	}
	r := job.Result
	errs = multierr.Append(errs, q.history.AppendHistory(ctx, domain.HistoryEntry{
		ID:          uuid.NewString(),
		URL:         r.URL,
		Verdict:     r.Verdict,
		Score:       r.Score,
		Explanation: r.Explanation,
		Details:     r.Details,
		UserID:      job.UserID,
		FromCache:   r.FromCache,
		Pending:     r.Pending,
		CreatedAt:   q.clock.Now(),
	}))
	return errs
}

// Stop closes the queue and waits for queued jobs until ctx is done.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.jobs != nil && !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
