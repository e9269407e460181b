package verdict

import (
	"math"
	"slices"
	"strings"
	"testing"

	"neurasec/internal/domain"
	"neurasec/internal/heuristics"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFuse_EngineTally(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		verdict domain.Verdict
		score   float64
	}{
		{
			name:    "majority threshold by share",
			in:      Input{Tally: domain.Tally{Malicious: 3, Harmless: 7}},
			verdict: domain.VerdictMalicious,
			score:   0.3,
		},
		{
			name:    "two malicious in a large pool",
			in:      Input{Tally: domain.Tally{Malicious: 2, Suspicious: 2, Harmless: 60, Undetected: 16}},
			verdict: domain.VerdictMalicious,
			score:   0.0375,
		},
		{
			name:    "single malicious below share is low confidence",
			in:      Input{Tally: domain.Tally{Malicious: 1, Harmless: 70, Undetected: 9}},
			verdict: domain.VerdictSuspicious,
			score:   0.4,
		},
		{
			name:    "single malicious above share",
			in:      Input{Tally: domain.Tally{Malicious: 1, Harmless: 9}},
			verdict: domain.VerdictMalicious,
			score:   0.1,
		},
		{
			name:    "three suspicious",
			in:      Input{Tally: domain.Tally{Suspicious: 3, Harmless: 67}},
			verdict: domain.VerdictSuspicious,
			score:   0.0214,
		},
		{
			name:    "suspicious share",
			in:      Input{Tally: domain.Tally{Suspicious: 2, Harmless: 8}},
			verdict: domain.VerdictSuspicious,
			score:   0.1,
		},
		{
			name:    "all harmless",
			in:      Input{Tally: domain.Tally{Harmless: 60, Undetected: 10}},
			verdict: domain.VerdictSafe,
			score:   0,
		},
		{
			name:    "metadata only",
			in:      Input{HasMetadata: true},
			verdict: domain.VerdictSafe,
			score:   0,
		},
		{
			name:    "pending",
			in:      Input{Pending: true},
			verdict: domain.VerdictSafe,
			score:   0,
		},
		{
			name:    "no data",
			in:      Input{},
			verdict: domain.VerdictError,
			score:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Fuse(tt.in)
			if out.Verdict != tt.verdict {
				t.Errorf("Verdict = %s, want %s", out.Verdict, tt.verdict)
			}
			if !approx(out.Score, tt.score) {
				t.Errorf("Score = %v, want %v", out.Score, tt.score)
			}
			if out.Explanation == "" {
				t.Error("Expected an explanation")
			}
		})
	}
}

func TestFuse_MaliciousExplanation(t *testing.T) {
	out := Fuse(Input{Tally: domain.Tally{Malicious: 3, Harmless: 7}})
	if out.Explanation != "Flagged as malicious by 3 of 10 security vendors." {
		t.Errorf("unexpected explanation %q", out.Explanation)
	}
}

func TestFuse_HomographEscalation(t *testing.T) {
	in := Input{
		Tally: domain.Tally{Harmless: 70},
		Homograph: domain.HomographFinding{
			IsPotentialHomograph: true,
			Reasons:              []string{"Domain closely resembles trusted domain paypal.com"},
			SimilarTo:            "paypal.com",
		},
	}
	out := Fuse(in)
	if out.Verdict.Severity() < domain.VerdictSuspicious.Severity() {
		t.Errorf("Expected at least Suspicious, got %s", out.Verdict)
	}
	if out.Score < 0.7-1e-9 {
		t.Errorf("Expected score >= 0.7, got %v", out.Score)
	}
	if !strings.HasPrefix(out.Explanation, "WARNING: mimics paypal.com") {
		t.Errorf("Expected mimic warning, got %q", out.Explanation)
	}
	if out.Details[0].Status != domain.StatusCritical {
		t.Errorf("Expected critical homograph detail, got %s", out.Details[0].Status)
	}
}

func TestFuse_HeuristicsEscalateSafe(t *testing.T) {
	in := Input{
		Tally:      domain.Tally{Harmless: 50},
		Heuristics: heuristics.Result{BareIP: true, RiskyTLD: ""},
	}
	out := Fuse(in)
	if out.Verdict != domain.VerdictSuspicious {
		t.Errorf("Expected Suspicious, got %s", out.Verdict)
	}
	if !approx(out.Score, 0.2) {
		t.Errorf("Expected score 0.2, got %v", out.Score)
	}
	if !strings.Contains(out.Explanation, "bare IP") {
		t.Errorf("Expected explanation to mention the heuristic, got %q", out.Explanation)
	}
}

func TestFuse_HeuristicsNeverLowerVerdict(t *testing.T) {
	in := Input{
		Tally:      domain.Tally{Malicious: 40, Harmless: 30},
		Heuristics: heuristics.Result{RiskyTLD: "xyz", LoginPath: true, LoginKeyword: "login"},
	}
	out := Fuse(in)
	if out.Verdict != domain.VerdictMalicious {
		t.Errorf("Expected Malicious, got %s", out.Verdict)
	}
	if out.Score > 1 {
		t.Errorf("Score must be clamped to 1, got %v", out.Score)
	}
}

func TestFuse_ScoreClamped(t *testing.T) {
	in := Input{
		Tally:      domain.Tally{Malicious: 70},
		Heuristics: heuristics.Result{BareIP: true, RiskyTLD: "top", LoginPath: true},
		Homograph:  domain.HomographFinding{IsPotentialHomograph: true, SimilarTo: "google.com"},
	}
	if out := Fuse(in); out.Score != 1 {
		t.Errorf("Expected score clamped to 1, got %v", out.Score)
	}
}

func TestFuse_ErrorWithHeuristics(t *testing.T) {
	out := Fuse(Input{Heuristics: heuristics.Result{RiskyTLD: "gq", BareIP: true}})
	if out.Verdict != domain.VerdictError {
		t.Errorf("Expected Error to survive local signals, got %s", out.Verdict)
	}
	if !approx(out.Score, 0.3) {
		t.Errorf("Expected local score 0.3, got %v", out.Score)
	}
	var categories []string
	for _, d := range out.Details {
		categories = append(categories, d.Category)
	}
	if !slices.Contains(categories, "Top-Level Domain") || !slices.Contains(categories, "IP Address") {
		t.Errorf("Expected local check details, got %v", categories)
	}
}

func TestFuse_ErrorWithMimicStaysError(t *testing.T) {
	out := Fuse(Input{Homograph: domain.HomographFinding{
		IsPotentialHomograph: true,
		Reasons:              []string{"Domain closely resembles trusted domain paypal.com"},
		SimilarTo:            "paypal.com",
	}})
	if out.Verdict != domain.VerdictError {
		t.Errorf("Expected Error without engine data, got %s", out.Verdict)
	}
	if out.Score < 0.7-1e-9 {
		t.Errorf("Expected local score >= 0.7, got %v", out.Score)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("https://a.test/", map[domain.Verdict]int{
		domain.VerdictSafe:      2,
		domain.VerdictMalicious: 5,
	})
	if s.Total != 7 {
		t.Errorf("Total = %d, want 7", s.Total)
	}
	if s.Majority != domain.VerdictMalicious {
		t.Errorf("Majority = %s, want Malicious", s.Majority)
	}

	tie := Summarize("u", map[domain.Verdict]int{domain.VerdictSafe: 2, domain.VerdictSuspicious: 2})
	if tie.Majority != domain.VerdictSuspicious {
		t.Errorf("Tie should resolve to the more severe verdict, got %s", tie.Majority)
	}

	empty := Summarize("u", nil)
	if empty.Majority != "" || empty.Total != 0 {
		t.Errorf("Expected empty summary, got %+v", empty)
	}
}

func TestApplyCommunity(t *testing.T) {
	summary := Summarize("u", map[domain.Verdict]int{domain.VerdictMalicious: 3})

	res := domain.ScanResult{Verdict: domain.VerdictSafe, Score: 0, Explanation: "No security vendors flagged this URL (70 engines checked)."}
	ApplyCommunity(&res, summary, 3)
	if !res.CommunityAdvisory {
		t.Error("Expected advisory when majority disagrees")
	}
	if !strings.Contains(res.Explanation, "3 of 3 user reports mark this URL as Malicious") {
		t.Errorf("Unexpected explanation %q", res.Explanation)
	}
	if res.Score != 0 {
		t.Error("Community feedback must not change the score")
	}
	if res.Verdict != domain.VerdictSafe {
		t.Error("Community feedback must not change the verdict")
	}

	few := domain.ScanResult{Verdict: domain.VerdictSafe, Explanation: "x"}
	ApplyCommunity(&few, Summarize("u", map[domain.Verdict]int{domain.VerdictMalicious: 2}), 3)
	if few.CommunityAdvisory || few.Explanation != "x" {
		t.Error("Expected no advisory below the vote threshold")
	}
	if few.CommunityFeedback == nil || few.CommunityFeedback.Total != 2 {
		t.Error("Expected summary to be attached even without advisory")
	}

	agree := domain.ScanResult{Verdict: domain.VerdictMalicious, Explanation: "x"}
	ApplyCommunity(&agree, summary, 3)
	if agree.CommunityAdvisory {
		t.Error("Expected no advisory when majority agrees")
	}
}
