package feedback

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"neurasec/internal/domain"
	"neurasec/internal/ports"
	"neurasec/internal/services/scanner"
	"neurasec/internal/verdict"
)

const maxComment = 1000

type Service struct {
	repo  ports.FeedbackRepository
	clock clockwork.Clock
}

func New(repo ports.FeedbackRepository, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Submit records one vote and returns the updated aggregate. Repeat votes for
// the same verdict increment its counter.
func (s *Service) Submit(ctx context.Context, v domain.FeedbackVote) (domain.FeedbackSummary, error) {
	target, err := scanner.Normalize(v.URL)
	if err != nil {
		return domain.FeedbackSummary{}, err
	}
	if !v.UserVerdict.Votable() {
		return domain.FeedbackSummary{}, domain.Invalid("userVerdict", "must be one of Safe, Suspicious, Malicious")
	}
	if v.OriginalVerdict != "" && v.OriginalVerdict.Severity() == 0 && v.OriginalVerdict != domain.VerdictError {
		return domain.FeedbackSummary{}, domain.Invalid("originalVerdict", "unknown verdict %q", v.OriginalVerdict)
	}
	v.Comment = strings.TrimSpace(v.Comment)
	if utf8.RuneCountInString(v.Comment) > maxComment {
		return domain.FeedbackSummary{}, domain.Invalid("comment", "must be at most %d characters", maxComment)
	}

	v.URL = target.URL
	v.SubmittedAt = s.clock.Now()
	if err := s.repo.RecordFeedback(ctx, v); err != nil {
		return domain.FeedbackSummary{}, err
	}
	return s.summary(ctx, target.URL)
}

// Summary returns the current aggregate without voting.
func (s *Service) Summary(ctx context.Context, rawURL string) (domain.FeedbackSummary, error) {
	target, err := scanner.Normalize(rawURL)
	if err != nil {
		return domain.FeedbackSummary{}, err
	}
	return s.summary(ctx, target.URL)
}

func (s *Service) summary(ctx context.Context, url string) (domain.FeedbackSummary, error) {
	counts, err := s.repo.FeedbackCounts(ctx, url)
	if err != nil {
		return domain.FeedbackSummary{}, err
	}
	return verdict.Summarize(url, counts), nil
}
