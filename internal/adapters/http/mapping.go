package httpadapter

import (
	api "neurasec/internal/api"
	"neurasec/internal/domain"
)

func toAPIResult(r domain.ScanResult) api.ScanResult {
	out := api.ScanResult{
		Url:              r.URL,
		Verdict:          api.Verdict(r.Verdict),
		Score:            r.Score,
		Explanation:      r.Explanation,
		Details:          toAPIDetails(r.Details),
		LastAnalysisDate: r.LastAnalysisDate,
		FromCache:        r.FromCache,
		Pending:          r.Pending,
	}
	if len(r.VendorResults) > 0 {
		out.VendorResults = &r.VendorResults
	}
	if len(r.Categories) > 0 {
		out.Categories = &r.Categories
	}
	if r.Reputation != 0 {
		out.Reputation = &r.Reputation
	}
	if r.TimesSubmitted != 0 {
		out.TimesSubmitted = &r.TimesSubmitted
	}
	if r.CommunityFeedback != nil {
		fs := api.FeedbackStats{
			Counts:          counts(*r.CommunityFeedback),
			Total:           r.CommunityFeedback.Total,
			MajorityVerdict: majority(*r.CommunityFeedback),
		}
		out.CommunityFeedback = &fs
	}
	if r.CommunityAdvisory {
		out.CommunityAdvisory = &r.CommunityAdvisory
	}
	return out
}

// toAPIAnalyze renders a result in the legacy vocabulary. Scores keep the
// 0 = safe convention.
func toAPIAnalyze(r domain.ScanResult) api.AnalyzeResult {
	return api.AnalyzeResult{
		Url:         r.URL,
		Verdict:     api.LegacyVerdict(r.Verdict.Legacy()),
		Score:       r.Score,
		Explanation: r.Explanation,
		Details:     toAPIDetails(r.Details),
	}
}

func toAPIDetails(ds []domain.Detail) []api.Detail {
	out := make([]api.Detail, 0, len(ds))
	for _, d := range ds {
		out = append(out, api.Detail{Category: d.Category, Status: api.DetailStatus(d.Status), Description: d.Description})
	}
	return out
}

func toAPIFeedback(s domain.FeedbackSummary) api.FeedbackResponse {
	return api.FeedbackResponse{
		Success:         true,
		FeedbackStats:   counts(s),
		TotalFeedbacks:  s.Total,
		MajorityVerdict: majority(s),
	}
}

func toAPIHistory(url string, entries []domain.HistoryEntry) api.HistoryResponse {
	out := api.HistoryResponse{Url: url, Entries: make([]api.HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, api.HistoryEntry{
			Id:          e.ID,
			Url:         e.URL,
			Verdict:     api.Verdict(e.Verdict),
			Score:       e.Score,
			Explanation: e.Explanation,
			Details:     toAPIDetails(e.Details),
			UserId:      e.UserID,
			FromCache:   e.FromCache,
			Pending:     e.Pending,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

func counts(s domain.FeedbackSummary) map[string]int {
	out := map[string]int{
		string(domain.VerdictSafe):       0,
		string(domain.VerdictSuspicious): 0,
		string(domain.VerdictMalicious):  0,
	}
	for v, n := range s.Counts {
		out[string(v)] = n
	}
	return out
}

func majority(s domain.FeedbackSummary) *api.Verdict {
	if s.Majority == "" {
		return nil
	}
	v := api.Verdict(s.Majority)
	return &v
}
