// Package storetest holds the behavior every ports.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"neurasec/internal/domain"
	"neurasec/internal/ports"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sample(url string) domain.ScanResult {
	analyzed := base.Add(-time.Hour)
	return domain.ScanResult{
		URL:         url,
		Verdict:     domain.VerdictSuspicious,
		Score:       0.4,
		Explanation: "Flagged as malicious by 1 of 70 security vendors (low confidence).",
		Details: []domain.Detail{
			{Category: "Homograph Check", Status: domain.StatusOK, Description: "clean"},
			{Category: "Vendor Analysis", Status: domain.StatusWarning, Description: "malicious: 1"},
		},
		VendorResults:    map[string]string{"EngineA": "phishing"},
		Categories:       map[string]string{"Forcepoint": "news"},
		Reputation:       -3,
		LastAnalysisDate: &analyzed,
		TimesSubmitted:   4,
		FetchedAt:        base,
		ExpiresAt:        base.Add(6 * time.Hour),
	}
}

// Run exercises newStore against the shared repository contract.
func Run(t *testing.T, newStore func(t *testing.T) ports.Store) {
	t.Run("CacheRoundTrip", func(t *testing.T) { testCacheRoundTrip(t, newStore(t)) })
	t.Run("CacheOverwrite", func(t *testing.T) { testCacheOverwrite(t, newStore(t)) })
	t.Run("EvictExpired", func(t *testing.T) { testEvict(t, newStore(t)) })
	t.Run("History", func(t *testing.T) { testHistory(t, newStore(t)) })
	t.Run("Feedback", func(t *testing.T) { testFeedback(t, newStore(t)) })
	t.Run("Counters", func(t *testing.T) { testCounters(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) {
		if err := newStore(t).Ping(context.Background()); err != nil {
			t.Errorf("Ping returned error: %v", err)
		}
	})
}

func testCacheRoundTrip(t *testing.T, s ports.Store) {
	ctx := context.Background()
	want := sample("https://example.com/a")
	if err := s.PutCached(ctx, want); err != nil {
		t.Fatalf("PutCached returned error: %v", err)
	}

	got, ok, err := s.GetCached(ctx, want.URL, base.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("GetCached = ok:%v err:%v, want hit", ok, err)
	}
	if got.Verdict != want.Verdict || got.Score != want.Score || got.Explanation != want.Explanation {
		t.Errorf("Unexpected core fields: %+v", got)
	}
	if len(got.Details) != 2 || got.Details[1] != want.Details[1] {
		t.Errorf("Unexpected details: %+v", got.Details)
	}
	if got.VendorResults["EngineA"] != "phishing" || got.Categories["Forcepoint"] != "news" {
		t.Errorf("Unexpected maps: %v %v", got.VendorResults, got.Categories)
	}
	if got.Reputation != -3 || got.TimesSubmitted != 4 {
		t.Errorf("Unexpected metadata: %+v", got)
	}
	if got.LastAnalysisDate == nil || !got.LastAnalysisDate.Equal(*want.LastAnalysisDate) {
		t.Errorf("Unexpected last analysis date: %v", got.LastAnalysisDate)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("Unexpected timestamps: fetched=%v expires=%v", got.FetchedAt, got.ExpiresAt)
	}

	if _, ok, _ := s.GetCached(ctx, want.URL, want.ExpiresAt); ok {
		t.Error("Entry must be a miss once now reaches expires_at")
	}
	if _, ok, _ := s.GetCached(ctx, "https://example.com/other", base); ok {
		t.Error("Unknown URL must be a miss")
	}
}

func testCacheOverwrite(t *testing.T, s ports.Store) {
	ctx := context.Background()
	first := sample("https://example.com/b")
	if err := s.PutCached(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := first
	second.Verdict = domain.VerdictSafe
	second.Score = 0
	second.Details = nil
	second.VendorResults = nil
	second.ExpiresAt = base.Add(12 * time.Hour)
	if err := s.PutCached(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetCached(ctx, first.URL, base.Add(7*time.Hour))
	if err != nil || !ok {
		t.Fatalf("Expected overwritten entry to be fresh, ok:%v err:%v", ok, err)
	}
	if got.Verdict != domain.VerdictSafe || len(got.Details) != 0 || len(got.VendorResults) != 0 {
		t.Errorf("Expected every field overwritten, got %+v", got)
	}
}

func testEvict(t *testing.T, s ports.Store) {
	ctx := context.Background()
	old := sample("https://old.example/")
	old.ExpiresAt = base.Add(-25 * time.Hour)
	recent := sample("https://recent.example/")
	recent.ExpiresAt = base.Add(-time.Hour)
	for _, r := range []domain.ScanResult{old, recent} {
		if err := s.PutCached(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.EvictExpired(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("EvictExpired returned error: %v", err)
	}
	if n != 1 {
		t.Errorf("EvictExpired removed %d rows, want 1", n)
	}
}

func testHistory(t *testing.T, s ports.Store) {
	ctx := context.Background()
	user := "user-7"
	for i, v := range []domain.Verdict{domain.VerdictSafe, domain.VerdictSuspicious, domain.VerdictMalicious} {
		e := domain.HistoryEntry{
			URL:         "https://example.com/h",
			Verdict:     v,
			Score:       float64(i) / 2,
			Explanation: string(v),
			Details:     []domain.Detail{{Category: "Vendor Analysis", Status: domain.StatusOK}},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if i == 2 {
			e.UserID = &user
		}
		if err := s.AppendHistory(ctx, e); err != nil {
			t.Fatalf("AppendHistory returned error: %v", err)
		}
	}
	if err := s.AppendHistory(ctx, domain.HistoryEntry{URL: "https://other.example/", Verdict: domain.VerdictSafe, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ListHistory(ctx, "https://example.com/h", 2)
	if err != nil {
		t.Fatalf("ListHistory returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Verdict != domain.VerdictMalicious || rows[1].Verdict != domain.VerdictSuspicious {
		t.Errorf("Expected newest first, got %s then %s", rows[0].Verdict, rows[1].Verdict)
	}
	if rows[0].UserID == nil || *rows[0].UserID != user {
		t.Errorf("Expected user id on newest row, got %v", rows[0].UserID)
	}
	if rows[1].UserID != nil {
		t.Error("Anonymous rows must not carry a user id")
	}
	if rows[0].ID == "" || rows[0].ID == rows[1].ID {
		t.Error("Expected distinct row ids")
	}
	if len(rows[1].Details) != 1 {
		t.Errorf("Expected details to round-trip, got %+v", rows[1].Details)
	}
}

func testFeedback(t *testing.T, s ports.Store) {
	ctx := context.Background()
	url := "https://example.com/f"
	votes := []domain.Verdict{domain.VerdictMalicious, domain.VerdictMalicious, domain.VerdictSafe}
	for _, v := range votes {
		err := s.RecordFeedback(ctx, domain.FeedbackVote{
			URL:             url,
			OriginalVerdict: domain.VerdictSafe,
			UserVerdict:     v,
			Comment:         "looks like phishing",
			SubmittedAt:     base,
		})
		if err != nil {
			t.Fatalf("RecordFeedback returned error: %v", err)
		}
	}

	counts, err := s.FeedbackCounts(ctx, url)
	if err != nil {
		t.Fatalf("FeedbackCounts returned error: %v", err)
	}
	if counts[domain.VerdictMalicious] != 2 {
		t.Errorf("Expected Malicious count 2, got %d", counts[domain.VerdictMalicious])
	}
	if counts[domain.VerdictSafe] != 1 {
		t.Errorf("Expected Safe count 1, got %d", counts[domain.VerdictSafe])
	}
	if len(counts) != 2 {
		t.Errorf("Expected one entry per voted verdict, got %v", counts)
	}

	empty, err := s.FeedbackCounts(ctx, "https://unvoted.example/")
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected no counts for an unvoted URL, got %v (%v)", empty, err)
	}
}

func testCounters(t *testing.T, s ports.Store) {
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		n, err := s.Increment(ctx, "203.0.113.5", base.Add(time.Duration(i)*time.Second), time.Minute)
		if err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
		if n != i {
			t.Errorf("Increment #%d = %d", i, n)
		}
	}
	n, err := s.Increment(ctx, "203.0.113.5", base.Add(61*time.Second), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected counter reset after the window, got %d", n)
	}
}
