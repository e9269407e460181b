package feedback

import (
	"context"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/adapters/memory"
	"neurasec/internal/domain"
)

func TestSubmit_Aggregates(t *testing.T) {
	svc := New(memory.New(), clockwork.NewFakeClock())
	ctx := context.Background()

	vote := domain.FeedbackVote{URL: "example.com/login", OriginalVerdict: domain.VerdictSafe, UserVerdict: domain.VerdictMalicious}
	if _, err := svc.Submit(ctx, vote); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	sum, err := svc.Submit(ctx, vote)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if sum.Counts[domain.VerdictMalicious] != 2 || sum.Total != 2 {
		t.Errorf("Expected Malicious count 2, got %+v", sum)
	}
	if sum.Majority != domain.VerdictMalicious {
		t.Errorf("Expected Malicious majority, got %s", sum.Majority)
	}
	if sum.URL != "https://example.com/login" {
		t.Errorf("Expected normalized URL, got %s", sum.URL)
	}

	// Same URL in another spelling shares the aggregate.
	got, err := svc.Summary(ctx, "HTTPS://EXAMPLE.COM/login")
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 2 {
		t.Errorf("Expected Summary to see both votes, got %d", got.Total)
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := New(memory.New(), clockwork.NewFakeClock())
	tests := []struct {
		name string
		vote domain.FeedbackVote
	}{
		{"bad url", domain.FeedbackVote{URL: "ftp://x.example", UserVerdict: domain.VerdictSafe}},
		{"error vote", domain.FeedbackVote{URL: "example.com", UserVerdict: domain.VerdictError}},
		{"unknown vote", domain.FeedbackVote{URL: "example.com", UserVerdict: "Dangerous"}},
		{"unknown original", domain.FeedbackVote{URL: "example.com", UserVerdict: domain.VerdictSafe, OriginalVerdict: "Maybe"}},
		{"long comment", domain.FeedbackVote{URL: "example.com", UserVerdict: domain.VerdictSafe, Comment: strings.Repeat("x", 1001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), tt.vote); !domain.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestSummary_Empty(t *testing.T) {
	svc := New(memory.New(), clockwork.NewFakeClock())
	sum, err := svc.Summary(context.Background(), "https://unvoted.example/")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 0 || sum.Majority != "" {
		t.Errorf("Expected empty summary, got %+v", sum)
	}
}
