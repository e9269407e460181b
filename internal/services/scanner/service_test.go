package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/adapters/memory"
	"neurasec/internal/cache"
	"neurasec/internal/domain"
	"neurasec/internal/heuristics"
	"neurasec/internal/ports"
	"neurasec/internal/ratelimit"
	"neurasec/internal/trust"
	"neurasec/internal/virustotal"
	"neurasec/internal/workers/persist"
)

type mockLookup struct {
	mu      sync.Mutex
	calls   atomic.Int32
	reports map[string]virustotal.Report
	err     error
	release chan struct{}
	entered chan struct{}
}

func (m *mockLookup) Lookup(_ context.Context, rawURL string) (virustotal.Report, error) {
	m.calls.Add(1)
	if m.entered != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return virustotal.Report{}, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[rawURL]; ok {
		return r, nil
	}
	return virustotal.Report{Tally: domain.Tally{Harmless: 65, Undetected: 5}}, nil
}

type fixture struct {
	svc    *Service
	lookup *mockLookup
	store  *memory.Store
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T, limit int) *fixture {
	t.Helper()
	heur, err := heuristics.New()
	if err != nil {
		t.Fatal(err)
	}
	clock := clockwork.NewFakeClock()
	store := memory.New()
	rep := cache.New(store, clock, cache.DefaultTTL, cache.DefaultGrace)
	lookup := &mockLookup{reports: map[string]virustotal.Report{}}

	svc := New(Deps{
		Trusted:    trust.New(trust.DefaultDomains),
		Heuristics: heur,
		Cache:      rep,
		Limiter:    ratelimit.NewFixedWindow(store, clock, limit, time.Minute),
		Lookup:     lookup,
		Persister:  persist.New(rep, store, clock, 0),
		History:    store,
		Feedback:   store,
		MinVotes:   3,
	})
	return &fixture{svc: svc, lookup: lookup, store: store, clock: clock}
}

func scan(t *testing.T, f *fixture, raw string) domain.ScanResult {
	t.Helper()
	res, err := f.svc.Scan(context.Background(), ports.ScanRequest{URL: raw, ClientKey: "203.0.113.10"})
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", raw, err)
	}
	return res
}

func TestScan_TrustedDomainShortCircuits(t *testing.T) {
	f := newFixture(t, 10)

	first := scan(t, f, "https://google.com")
	if first.Verdict != domain.VerdictSafe || first.Score != 0 {
		t.Errorf("Expected Safe/0, got %s/%v", first.Verdict, first.Score)
	}
	if first.FromCache {
		t.Error("First scan must not come from cache")
	}

	second := scan(t, f, "https://google.com")
	if !second.FromCache {
		t.Error("Expected second scan to be served from cache")
	}
	if f.lookup.calls.Load() != 0 {
		t.Errorf("Trusted domain must never reach the reputation service, got %d calls", f.lookup.calls.Load())
	}

	sub := scan(t, f, "https://mail.google.com/inbox")
	if sub.Verdict != domain.VerdictSafe || f.lookup.calls.Load() != 0 {
		t.Error("Expected subdomain of a trusted domain to short-circuit")
	}
}

func TestScan_UnseenBenignIsCached(t *testing.T) {
	f := newFixture(t, 10)
	url := "https://benign-example.org/articles/1"

	res := scan(t, f, url)
	if res.Verdict != domain.VerdictSafe || res.Score != 0 {
		t.Fatalf("Expected Safe/0, got %s/%v (%s)", res.Verdict, res.Score, res.Explanation)
	}

	cached, ok, err := f.store.GetCached(context.Background(), url, f.clock.Now())
	if err != nil || !ok {
		t.Fatalf("Expected cache row, ok=%v err=%v", ok, err)
	}
	if cached.ExpiresAt.Sub(cached.FetchedAt) != 6*time.Hour {
		t.Errorf("Expected expires_at = fetched_at + 6h, got %v", cached.ExpiresAt.Sub(cached.FetchedAt))
	}

	again := scan(t, f, url)
	if !again.FromCache || f.lookup.calls.Load() != 1 {
		t.Errorf("Expected cache hit without a second lookup, fromCache=%v calls=%d", again.FromCache, f.lookup.calls.Load())
	}

	f.clock.Advance(6 * time.Hour)
	scan(t, f, url)
	if f.lookup.calls.Load() != 2 {
		t.Errorf("Expected a fresh lookup after expiry, got %d calls", f.lookup.calls.Load())
	}

	rows, _ := f.store.ListHistory(context.Background(), url, 0)
	if len(rows) != 3 {
		t.Errorf("Expected one history row per scan, got %d", len(rows))
	}
}

func TestScan_HomographOfTrustedIsNeverTrusted(t *testing.T) {
	f := newFixture(t, 10)

	// Cyrillic U+0430 in place of the first 'a'.
	res := scan(t, f, "https://pаypal.com/")
	if res.Verdict != domain.VerdictMalicious {
		t.Errorf("Expected Malicious for a paypal look-alike, got %s", res.Verdict)
	}
	if res.Score < 0.7 {
		t.Errorf("Expected score >= 0.7, got %v", res.Score)
	}
	if !strings.HasPrefix(res.Explanation, "WARNING: mimics paypal.com") {
		t.Errorf("Unexpected explanation %q", res.Explanation)
	}
	if f.lookup.calls.Load() != 1 {
		t.Errorf("Expected the look-alike to go through the full lookup, got %d calls", f.lookup.calls.Load())
	}

	typo := scan(t, f, "https://paypa1.com/")
	if typo.Verdict != domain.VerdictMalicious {
		t.Errorf("Expected Malicious for a typosquat, got %s", typo.Verdict)
	}
}

func TestScan_PendingIsNotCached(t *testing.T) {
	f := newFixture(t, 10)
	url := "https://brand-new.example/"
	f.lookup.reports[url] = virustotal.Report{Pending: true}

	res := scan(t, f, url)
	if !res.Pending || res.Verdict != domain.VerdictSafe {
		t.Errorf("Expected provisional Safe, got %s pending=%v", res.Verdict, res.Pending)
	}
	if _, ok, _ := f.store.GetCached(context.Background(), url, f.clock.Now()); ok {
		t.Error("Pending result must not be cached")
	}
	rows, _ := f.store.ListHistory(context.Background(), url, 0)
	if len(rows) != 1 || !rows[0].Pending {
		t.Errorf("Expected a pending history row, got %+v", rows)
	}

	scan(t, f, url)
	if f.lookup.calls.Load() != 2 {
		t.Errorf("Expected a second lookup for a pending URL, got %d", f.lookup.calls.Load())
	}
}

func TestScan_UpstreamFailure(t *testing.T) {
	f := newFixture(t, 10)
	f.lookup.err = fmt.Errorf("virustotal submit: %w", domain.ErrUpstreamUnavailable)
	url := "https://benign-example.org/"

	res, err := f.svc.Scan(context.Background(), ports.ScanRequest{URL: url, ClientKey: "203.0.113.10"})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("Expected ErrUpstreamUnavailable, got %v", err)
	}
	if res.Verdict != domain.VerdictError {
		t.Errorf("Expected Error verdict, got %s", res.Verdict)
	}
	if _, ok, _ := f.store.GetCached(context.Background(), url, f.clock.Now()); ok {
		t.Error("Failed lookups must not be cached")
	}

	// Local signals are reported but the verdict stays Error.
	risky, err := f.svc.Scan(context.Background(), ports.ScanRequest{URL: "http://198.51.100.7/", ClientKey: "203.0.113.10"})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("Expected ErrUpstreamUnavailable, got %v", err)
	}
	if risky.Verdict != domain.VerdictError {
		t.Errorf("Expected Error verdict with local signals, got %s", risky.Verdict)
	}
	if risky.Score < 0.2 {
		t.Errorf("Expected local heuristics to contribute score, got %v", risky.Score)
	}
	if !hasDetail(risky, "IP Address") {
		t.Errorf("Expected an IP Address detail, got %+v", risky.Details)
	}
	if _, ok, _ := f.store.GetCached(context.Background(), "http://198.51.100.7/", f.clock.Now()); ok {
		t.Error("Degraded results must not be cached")
	}
}

func TestScan_CallerTimeoutReturnsError(t *testing.T) {
	f := newFixture(t, 10)
	f.lookup.release = make(chan struct{})
	t.Cleanup(func() { close(f.lookup.release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	url := "https://slow-upstream.example/"

	done := make(chan struct{})
	var (
		res domain.ScanResult
		err error
	)
	go func() {
		defer close(done)
		res, err = f.svc.Scan(ctx, ports.ScanRequest{URL: url, ClientKey: "203.0.113.20"})
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Scan ignored the caller's deadline")
	}

	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected the deadline in the error chain, got %v", err)
	}
	if res.Verdict != domain.VerdictError {
		t.Errorf("Expected Error verdict, got %s", res.Verdict)
	}
	if res.URL != url {
		t.Errorf("Expected URL %s, got %s", url, res.URL)
	}
}

func TestScan_TrustedSubdomainSkipsLookup(t *testing.T) {
	f := newFixture(t, 10)
	res, err := f.svc.Scan(context.Background(), ports.ScanRequest{URL: "https://m.facebook.com/", ClientKey: "203.0.113.30"})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if res.Verdict != domain.VerdictSafe {
		t.Errorf("Expected Safe, got %s (%s)", res.Verdict, res.Explanation)
	}
	if n := f.lookup.calls.Load(); n != 0 {
		t.Errorf("Expected no reputation lookups, got %d", n)
	}
}

func TestScan_RateLimited(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	req := func(url, client string) error {
		_, err := f.svc.Scan(ctx, ports.ScanRequest{URL: url, ClientKey: client})
		return err
	}

	for i := 0; i < 2; i++ {
		if err := req(fmt.Sprintf("https://site%d.example/", i), "198.51.100.1"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if err := req("https://site9.example/", "198.51.100.1"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}
	if err := req("https://google.com/", "198.51.100.1"); err != nil {
		t.Errorf("Trusted domains are answered before the limiter, got %v", err)
	}
	if err := req("https://site0.example/", "198.51.100.1"); err != nil {
		t.Errorf("Cache hits are answered before the limiter, got %v", err)
	}
	if err := req("https://site9.example/", "127.0.0.1"); err != nil {
		t.Errorf("Loopback clients are exempt, got %v", err)
	}

	f.clock.Advance(time.Minute)
	if err := req("https://site9.example/", "198.51.100.1"); err != nil {
		t.Errorf("Expected a new window to allow the request, got %v", err)
	}
}

func TestScan_Validation(t *testing.T) {
	f := newFixture(t, 10)
	res, err := f.svc.Scan(context.Background(), ports.ScanRequest{URL: "ftp://files.example.com/"})
	if !domain.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if res.Verdict != domain.VerdictError || res.Explanation == "" {
		t.Errorf("Expected Error-shaped result, got %+v", res)
	}
	if f.lookup.calls.Load() != 0 {
		t.Error("Invalid URLs must not reach the reputation service")
	}
}

func TestScan_CommunityAdvisory(t *testing.T) {
	f := newFixture(t, 10)
	url := "https://benign-example.org/"
	for i := 0; i < 3; i++ {
		f.store.RecordFeedback(context.Background(), domain.FeedbackVote{
			URL: url, OriginalVerdict: domain.VerdictSafe, UserVerdict: domain.VerdictMalicious,
		})
	}

	res := scan(t, f, url)
	if !res.CommunityAdvisory {
		t.Error("Expected community advisory")
	}
	if res.Score != 0 || res.Verdict != domain.VerdictSafe {
		t.Errorf("Community feedback must not change verdict or score, got %s/%v", res.Verdict, res.Score)
	}
	if res.CommunityFeedback == nil || res.CommunityFeedback.Total != 3 {
		t.Errorf("Expected feedback summary, got %+v", res.CommunityFeedback)
	}

	cached, _, _ := f.store.GetCached(context.Background(), url, f.clock.Now())
	if strings.Contains(cached.Explanation, "Community advisory") {
		t.Error("Advisory text must not be persisted into the cache row")
	}
}

func TestScan_DeduplicatesConcurrentLookups(t *testing.T) {
	f := newFixture(t, 100)
	f.lookup.release = make(chan struct{})
	f.lookup.entered = make(chan struct{}, 1)
	url := "https://popular.example/"

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.Scan(context.Background(), ports.ScanRequest{URL: url, ClientKey: "203.0.113.10"})
		}()
	}
	<-f.lookup.entered
	time.Sleep(50 * time.Millisecond)
	close(f.lookup.release)
	wg.Wait()

	if n := f.lookup.calls.Load(); n != 1 {
		t.Errorf("Expected concurrent scans to share one lookup, got %d", n)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t, 10)
	scan(t, f, "benign-example.org")
	scan(t, f, "benign-example.org")

	rows, err := f.svc.History(context.Background(), "https://benign-example.org", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if !rows[0].FromCache || rows[1].FromCache {
		t.Error("Expected newest row first, served from cache")
	}

	if _, err := f.svc.History(context.Background(), "not a url", 0); !domain.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func hasDetail(res domain.ScanResult, category string) bool {
	for _, d := range res.Details {
		if d.Category == category {
			return true
		}
	}
	return false
}
