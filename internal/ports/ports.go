package ports

import (
	"context"

	"neurasec/internal/domain"
)

// Scanner runs the URL verdict pipeline.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (domain.ScanResult, error)
	History(ctx context.Context, rawURL string, limit int) ([]domain.HistoryEntry, error)
}

// ScanRequest carries the caller identity resolved at the edge.
type ScanRequest struct {
	URL       string
	ClientKey string
	UserID    *string
}

// Feedback records and aggregates community votes.
type Feedback interface {
	Submit(ctx context.Context, v domain.FeedbackVote) (domain.FeedbackSummary, error)
	Summary(ctx context.Context, rawURL string) (domain.FeedbackSummary, error)
}

// Health reports storage reachability.
type Health interface {
	Ping(ctx context.Context) error
}
