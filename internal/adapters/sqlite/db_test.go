package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"neurasec/internal/adapters/storetest"
	"neurasec/internal/domain"
	"neurasec/internal/ports"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store { return openMemory(t) })
}

func TestOpen_FileIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neurasec.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	err = db.RecordFeedback(ctx, domain.FeedbackVote{
		URL: "https://example.com/", UserVerdict: domain.VerdictMalicious, SubmittedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Migrations must be a no-op the second time.
	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer db.Close()

	counts, err := db.FeedbackCounts(ctx, "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if counts[domain.VerdictMalicious] != 1 {
		t.Errorf("Expected feedback to survive reopen, got %v", counts)
	}
}

func TestFeedback_RepeatVotesIncrement(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	user := "u-1"
	for i := 0; i < 2; i++ {
		err := db.RecordFeedback(ctx, domain.FeedbackVote{
			URL: "https://example.com/x", OriginalVerdict: domain.VerdictSafe,
			UserVerdict: domain.VerdictMalicious, UserID: &user, SubmittedAt: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	var rows, count, events int
	db.sql.QueryRow(`SELECT COUNT(*), SUM(feedback_count) FROM url_feedback WHERE url = ?`,
		"https://example.com/x").Scan(&rows, &count)
	db.sql.QueryRow(`SELECT COUNT(*) FROM url_feedback_events`).Scan(&events)
	if rows != 1 || count != 2 {
		t.Errorf("Expected one aggregate row with count 2, got rows=%d count=%d", rows, count)
	}
	if events != 2 {
		t.Errorf("Expected two raw vote events, got %d", events)
	}
}

func TestPruneCounters(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Increment(ctx, "a", now, time.Minute)
	db.Increment(ctx, "b", now.Add(45*time.Second), time.Minute)

	n, err := db.PruneCounters(ctx, now.Add(time.Minute), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("PruneCounters removed %d rows, want 1", n)
	}
}
