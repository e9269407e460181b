package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"neurasec/internal/domain"
)

// Timestamps are stored as unix milliseconds so range comparisons stay numeric.
func ms(t time.Time) int64 { return t.UnixMilli() }

func fromMS(v int64) time.Time { return time.UnixMilli(v).UTC() }

func marshal(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

// CacheRepository

func (db *DB) GetCached(ctx context.Context, url string, now time.Time) (domain.ScanResult, bool, error) {
	var (
		r                               domain.ScanResult
		verdict, details, vendors, cats string
		lastAnalysis                    sql.NullInt64
		fetched, expires                int64
	)
	err := db.sql.QueryRowContext(ctx, `
		SELECT url, verdict, score, explanation, details, vendor_results, categories,
		       reputation, last_analysis_date, times_submitted, fetched_at, expires_at
		FROM reputation_cache
		WHERE url = ? AND expires_at > ?
	`, url, ms(now)).Scan(&r.URL, &verdict, &r.Score, &r.Explanation, &details, &vendors, &cats,
		&r.Reputation, &lastAnalysis, &r.TimesSubmitted, &fetched, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScanResult{}, false, nil
	}
	if err != nil {
		return domain.ScanResult{}, false, err
	}
	r.Verdict = domain.Verdict(verdict)
	r.FetchedAt = fromMS(fetched)
	r.ExpiresAt = fromMS(expires)
	if lastAnalysis.Valid {
		t := fromMS(lastAnalysis.Int64)
		r.LastAnalysisDate = &t
	}
	if err := json.Unmarshal([]byte(details), &r.Details); err != nil {
		return domain.ScanResult{}, false, fmt.Errorf("decode details: %w", err)
	}
	if err := json.Unmarshal([]byte(vendors), &r.VendorResults); err != nil {
		return domain.ScanResult{}, false, fmt.Errorf("decode vendor results: %w", err)
	}
	if err := json.Unmarshal([]byte(cats), &r.Categories); err != nil {
		return domain.ScanResult{}, false, fmt.Errorf("decode categories: %w", err)
	}
	return r, true, nil
}

func (db *DB) PutCached(ctx context.Context, r domain.ScanResult) error {
	details, err := marshal(r.Details, "[]")
	if err != nil {
		return err
	}
	vendors, err := marshal(r.VendorResults, "{}")
	if err != nil {
		return err
	}
	cats, err := marshal(r.Categories, "{}")
	if err != nil {
		return err
	}
	var lastAnalysis sql.NullInt64
	if r.LastAnalysisDate != nil {
		lastAnalysis = sql.NullInt64{Int64: ms(*r.LastAnalysisDate), Valid: true}
	}
	_, err = db.sql.ExecContext(ctx, `
		INSERT INTO reputation_cache (url, verdict, score, explanation, details, vendor_results,
		    categories, reputation, last_analysis_date, times_submitted, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
		    verdict = excluded.verdict,
		    score = excluded.score,
		    explanation = excluded.explanation,
		    details = excluded.details,
		    vendor_results = excluded.vendor_results,
		    categories = excluded.categories,
		    reputation = excluded.reputation,
		    last_analysis_date = excluded.last_analysis_date,
		    times_submitted = excluded.times_submitted,
		    fetched_at = excluded.fetched_at,
		    expires_at = excluded.expires_at
	`, r.URL, string(r.Verdict), r.Score, r.Explanation, details, vendors, cats,
		r.Reputation, lastAnalysis, r.TimesSubmitted, ms(r.FetchedAt), ms(r.ExpiresAt))
	return err
}

func (db *DB) EvictExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM reputation_cache WHERE expires_at < ?`, ms(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HistoryRepository

func (db *DB) AppendHistory(ctx context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	details, err := marshal(e.Details, "[]")
	if err != nil {
		return err
	}
	_, err = db.sql.ExecContext(ctx, `
		INSERT INTO scan_history (id, url, verdict, score, explanation, details, user_id,
		    from_cache, pending, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.URL, string(e.Verdict), e.Score, e.Explanation, details, e.UserID,
		e.FromCache, e.Pending, ms(e.CreatedAt))
	return err
}

func (db *DB) ListHistory(ctx context.Context, url string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.sql.QueryContext(ctx, `
		SELECT id, url, verdict, score, explanation, details, user_id, from_cache, pending, created_at
		FROM scan_history
		WHERE url = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			e                domain.HistoryEntry
			verdict, details string
			userID           sql.NullString
			created          int64
		)
		if err := rows.Scan(&e.ID, &e.URL, &verdict, &e.Score, &e.Explanation, &details,
			&userID, &e.FromCache, &e.Pending, &created); err != nil {
			return nil, err
		}
		e.Verdict = domain.Verdict(verdict)
		e.CreatedAt = fromMS(created)
		if userID.Valid {
			e.UserID = &userID.String
		}
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, fmt.Errorf("decode details: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FeedbackRepository

func (db *DB) RecordFeedback(ctx context.Context, v domain.FeedbackVote) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO url_feedback (url, user_verdict, feedback_count, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (url, user_verdict) DO UPDATE SET
		    feedback_count = url_feedback.feedback_count + 1,
		    updated_at = excluded.updated_at
	`, v.URL, string(v.UserVerdict), ms(v.SubmittedAt)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO url_feedback_events (id, url, original_verdict, user_verdict, comment, user_id, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), v.URL, string(v.OriginalVerdict), string(v.UserVerdict), v.Comment,
		v.UserID, ms(v.SubmittedAt)); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) FeedbackCounts(ctx context.Context, url string) (map[domain.Verdict]int, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT user_verdict, feedback_count FROM url_feedback WHERE url = ?`, url)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Verdict]int)
	for rows.Next() {
		var v string
		var n int
		if err := rows.Scan(&v, &n); err != nil {
			return nil, err
		}
		out[domain.Verdict(v)] = n
	}
	return out, rows.Err()
}

// CounterStore

func (db *DB) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, `
		INSERT INTO rate_limit_counters (client_key, window_start, request_count)
		VALUES (?, ?, 1)
		ON CONFLICT (client_key) DO UPDATE SET
		    request_count = CASE WHEN rate_limit_counters.window_start <= ? THEN 1
		                         ELSE rate_limit_counters.request_count + 1 END,
		    window_start  = CASE WHEN rate_limit_counters.window_start <= ? THEN excluded.window_start
		                         ELSE rate_limit_counters.window_start END
		RETURNING request_count
	`, key, ms(now), ms(now.Add(-window)), ms(now.Add(-window))).Scan(&n)
	return n, err
}

// PruneCounters drops counters whose window ended before now.
func (db *DB) PruneCounters(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	res, err := db.sql.ExecContext(ctx,
		`DELETE FROM rate_limit_counters WHERE window_start <= ?`, ms(now.Add(-window)))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
