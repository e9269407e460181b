package verdict

import (
	"fmt"

	"neurasec/internal/domain"
)

// Summarize builds a FeedbackSummary from per-verdict counts. The majority is
// the verdict with the highest count; ties go to the more severe verdict.
func Summarize(url string, counts map[domain.Verdict]int) domain.FeedbackSummary {
	s := domain.FeedbackSummary{URL: url, Counts: make(map[domain.Verdict]int, 3)}
	for _, v := range []domain.Verdict{domain.VerdictMalicious, domain.VerdictSuspicious, domain.VerdictSafe} {
		n := counts[v]
		s.Counts[v] = n
		s.Total += n
		if n > 0 && n > s.Counts[s.Majority] {
			s.Majority = v
		}
	}
	return s
}

// ApplyCommunity attaches the feedback summary to res and, when the majority
// disagrees with the computed verdict with at least minVotes in total,
// appends an advisory sentence. The score is never touched.
func ApplyCommunity(res *domain.ScanResult, summary domain.FeedbackSummary, minVotes int) {
	if summary.Total == 0 {
		return
	}
	res.CommunityFeedback = &summary
	if summary.Total < minVotes || summary.Majority == "" || summary.Majority == res.Verdict {
		return
	}
	res.CommunityAdvisory = true
	advisory := fmt.Sprintf("Community advisory: %d of %d user reports mark this URL as %s.",
		summary.Counts[summary.Majority], summary.Total, summary.Majority)
	if res.Explanation == "" {
		res.Explanation = advisory
	} else {
		res.Explanation += " " + advisory
	}
	res.Details = append(res.Details, domain.Detail{
		Category:    "Community Feedback",
		Status:      domain.StatusWarning,
		Description: advisory,
	})
}
