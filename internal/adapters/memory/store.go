package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"neurasec/internal/domain"
	"neurasec/internal/ratelimit"
)

// Store keeps every repository in process memory. Data is lost on restart.
type Store struct {
	mu       sync.RWMutex
	cache    map[string]domain.ScanResult
	history  []domain.HistoryEntry
	feedback map[string]map[domain.Verdict]int
	votes    []domain.FeedbackVote

	*ratelimit.MemoryStore
}

func New() *Store {
	return &Store{
		cache:       make(map[string]domain.ScanResult),
		feedback:    make(map[string]map[domain.Verdict]int),
		MemoryStore: ratelimit.NewMemoryStore(),
	}
}

func clone(r domain.ScanResult) domain.ScanResult {
	r.Details = slices.Clone(r.Details)
	r.VendorResults = maps.Clone(r.VendorResults)
	r.Categories = maps.Clone(r.Categories)
	if r.LastAnalysisDate != nil {
		t := *r.LastAnalysisDate
		r.LastAnalysisDate = &t
	}
	r.CommunityFeedback = nil
	r.CommunityAdvisory = false
	return r
}

func (s *Store) GetCached(_ context.Context, url string, now time.Time) (domain.ScanResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cache[url]
	if !ok || !r.ExpiresAt.After(now) {
		return domain.ScanResult{}, false, nil
	}
	return clone(r), true, nil
}

func (s *Store) PutCached(_ context.Context, r domain.ScanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[r.URL] = clone(r)
	return nil
}

func (s *Store) EvictExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, r := range s.cache {
		if r.ExpiresAt.Before(cutoff) {
			delete(s.cache, k)
			n++
		}
	}
	return n, nil
}

func (s *Store) AppendHistory(_ context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Details = slices.Clone(e.Details)
	s.mu.Lock()
	s.history = append(s.history, e)
	s.mu.Unlock()
	return nil
}

func (s *Store) ListHistory(_ context.Context, url string, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.HistoryEntry
	for i := len(s.history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.history[i].URL == url {
			out = append(out, s.history[i])
		}
	}
	return out, nil
}

func (s *Store) RecordFeedback(_ context.Context, v domain.FeedbackVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.feedback[v.URL]
	if !ok {
		counts = make(map[domain.Verdict]int)
		s.feedback[v.URL] = counts
	}
	counts[v.UserVerdict]++
	s.votes = append(s.votes, v)
	return nil
}

func (s *Store) FeedbackCounts(_ context.Context, url string) (map[domain.Verdict]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.feedback[url]), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
