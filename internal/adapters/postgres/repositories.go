package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"neurasec/internal/domain"
)

// CacheRepository
func (db *DB) GetCached(ctx context.Context, url string, now time.Time) (domain.ScanResult, bool, error) {
	var r domain.ScanResult
	var verdict string
	err := db.Pool.QueryRow(ctx, `
		SELECT url, verdict, score, explanation, details, vendor_results, categories,
		       reputation, last_analysis_date, times_submitted, fetched_at, expires_at
		FROM reputation_cache
		WHERE url = $1 AND expires_at > $2
	`, url, now).Scan(&r.URL, &verdict, &r.Score, &r.Explanation, &r.Details, &r.VendorResults,
		&r.Categories, &r.Reputation, &r.LastAnalysisDate, &r.TimesSubmitted, &r.FetchedAt, &r.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScanResult{}, false, nil
	}
	if err != nil {
		return domain.ScanResult{}, false, err
	}
	r.Verdict = domain.Verdict(verdict)
	return r, true, nil
}

func (db *DB) PutCached(ctx context.Context, r domain.ScanResult) error {
	details := r.Details
	if details == nil {
		details = []domain.Detail{}
	}
	vendors, cats := r.VendorResults, r.Categories
	if vendors == nil {
		vendors = map[string]string{}
	}
	if cats == nil {
		cats = map[string]string{}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO reputation_cache (url, verdict, score, explanation, details, vendor_results,
		    categories, reputation, last_analysis_date, times_submitted, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO UPDATE SET
		    verdict = EXCLUDED.verdict,
		    score = EXCLUDED.score,
		    explanation = EXCLUDED.explanation,
		    details = EXCLUDED.details,
		    vendor_results = EXCLUDED.vendor_results,
		    categories = EXCLUDED.categories,
		    reputation = EXCLUDED.reputation,
		    last_analysis_date = EXCLUDED.last_analysis_date,
		    times_submitted = EXCLUDED.times_submitted,
		    fetched_at = EXCLUDED.fetched_at,
		    expires_at = EXCLUDED.expires_at
	`, r.URL, string(r.Verdict), r.Score, r.Explanation, details, vendors, cats,
		r.Reputation, r.LastAnalysisDate, r.TimesSubmitted, r.FetchedAt, r.ExpiresAt)
	return err
}

func (db *DB) EvictExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM reputation_cache WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HistoryRepository
func (db *DB) AppendHistory(ctx context.Context, e domain.HistoryEntry) error {
	id := uuid.New()
	if e.ID != "" {
		parsed, err := uuid.Parse(e.ID)
		if err != nil {
			return err
		}
		id = parsed
	}
	details := e.Details
	if details == nil {
		details = []domain.Detail{}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO scan_history (id, url, verdict, score, explanation, details, user_id,
		    from_cache, pending, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, e.URL, string(e.Verdict), e.Score, e.Explanation, details, e.UserID,
		e.FromCache, e.Pending, e.CreatedAt)
	return err
}

func (db *DB) ListHistory(ctx context.Context, url string, limit int) ([]domain.HistoryEntry, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id, url, verdict, score, explanation, details, user_id, from_cache, pending, created_at
		FROM scan_history
		WHERE url = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, url, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var id uuid.UUID
		var verdict string
		if err := rows.Scan(&id, &e.URL, &verdict, &e.Score, &e.Explanation, &e.Details,
			&e.UserID, &e.FromCache, &e.Pending, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.Verdict = domain.Verdict(verdict)
		out = append(out, e)
	}
	return out, rows.Err()
}

// FeedbackRepository
func (db *DB) RecordFeedback(ctx context.Context, v domain.FeedbackVote) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO url_feedback (url, user_verdict, feedback_count, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (url, user_verdict) DO UPDATE SET
			    feedback_count = url_feedback.feedback_count + 1,
			    updated_at = EXCLUDED.updated_at
		`, v.URL, string(v.UserVerdict), v.SubmittedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO url_feedback_events (id, url, original_verdict, user_verdict, comment, user_id, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New(), v.URL, string(v.OriginalVerdict), string(v.UserVerdict), v.Comment, v.UserID, v.SubmittedAt)
		return err
	})
}

func (db *DB) FeedbackCounts(ctx context.Context, url string) (map[domain.Verdict]int, error) {
	rows, err := db.Pool.Query(ctx, `SELECT user_verdict, feedback_count FROM url_feedback WHERE url = $1`, url)
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
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO rate_limit_counters (client_key, window_start, request_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (client_key) DO UPDATE SET
		    request_count = CASE WHEN rate_limit_counters.window_start <= $3 THEN 1
		                         ELSE rate_limit_counters.request_count + 1 END,
		    window_start  = CASE WHEN rate_limit_counters.window_start <= $3 THEN EXCLUDED.window_start
		                         ELSE rate_limit_counters.window_start END
		RETURNING request_count
	`, key, now, now.Add(-window)).Scan(&n)
	return n, err
}

func (db *DB) PruneCounters(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM rate_limit_counters WHERE window_start <= $1`, now.Add(-window))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
