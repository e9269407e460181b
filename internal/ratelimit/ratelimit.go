package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/logger"
	"neurasec/internal/ports"
)

// Limiter decides whether a client may perform an expensive lookup.
type Limiter interface {
	Allow(ctx context.Context, clientKey string) bool
}

// FixedWindow allows limit requests per window for each non-exempt key.
type FixedWindow struct {
	store  ports.CounterStore
	clock  clockwork.Clock
	limit  int
	window time.Duration
}

func NewFixedWindow(store ports.CounterStore, clock clockwork.Clock, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{store: store, clock: clock, limit: limit, window: window}
}

// Allow never throttles exempt keys. Store failures let the request through.
func (f *FixedWindow) Allow(ctx context.Context, clientKey string) bool {
	if Exempt(clientKey) {
		return true
	}
	n, err := f.store.Increment(ctx, clientKey, f.clock.Now(), f.window)
	if err != nil {
		logger.FromContext(ctx).Warn("rate limit store failed, allowing request",
			slog.String("client", clientKey), slog.Any("error", err))
		return true
	}
	return n <= f.limit
}

// Exempt reports whether key is unresolved or a loopback identity.
func Exempt(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || key == "unknown" || strings.EqualFold(key, "localhost") {
		return true
	}
	if host, _, err := net.SplitHostPort(key); err == nil {
		key = host
	}
	ip := net.ParseIP(strings.Trim(key, "[]"))
	return ip != nil && ip.IsLoopback()
}

type window struct {
	start time.Time
	count int
}

// MemoryStore keeps counters in process memory. Each instance enforces its
// own limit.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*window)}
}

func (m *MemoryStore) Increment(_ context.Context, key string, now time.Time, win time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.counters[key]
	if !ok || !now.Before(w.start.Add(win)) {
		w = &window{start: now}
		m.counters[key] = w
	}
	w.count++
	return w.count, nil
}

// PruneCounters drops counters whose window ended before now.
func (m *MemoryStore) PruneCounters(_ context.Context, now time.Time, win time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k, w := range m.counters {
		if !now.Before(w.start.Add(win)) {
			delete(m.counters, k)
			n++
		}
	}
	return n, nil
}
