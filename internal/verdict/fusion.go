package verdict

import (
	"fmt"
	"math"
	"strings"

	"neurasec/internal/domain"
	"neurasec/internal/heuristics"
)

// Local risk increments, added on top of the engine-tally score.
const (
	homographRisk   = 0.4
	mimicRisk       = 0.3
	bareIPRisk      = 0.2
	riskyTLDRisk    = 0.1
	loginPathRisk   = 0.1
	lowConfidence   = 0.4
	maliciousShare  = 0.05
	suspiciousShare = 0.1
)

// Input gathers every signal the fusion policy consumes.
type Input struct {
	Tally       domain.Tally
	HasMetadata bool
	// Pending means the external service has no data for the URL yet.
	Pending    bool
	Heuristics heuristics.Result
	Homograph  domain.HomographFinding
}

type Outcome struct {
	Verdict     domain.Verdict
	Score       float64
	Explanation string
	Details     []domain.Detail
}

// Fuse merges engine votes, local heuristics and the homograph finding into a
// single verdict. Local signals only ever raise the risk. An Error base stays
// Error; local signals then only contribute score and details.
func Fuse(in Input) Outcome {
	base, score, sentence := fromTally(in)

	local := localRisk(in)
	score = clamp(score + local)

	v := base
	if base != domain.VerdictError {
		flagged := in.Homograph.IsPotentialHomograph || in.Heuristics.Any()
		if flagged && base == domain.VerdictSafe {
			v = domain.VerdictSuspicious
		}
		if in.Homograph.SimilarTo != "" {
			v = domain.VerdictMalicious
		}
	}

	return Outcome{
		Verdict:     v,
		Score:       round(score),
		Explanation: explain(in, base, v, sentence),
		Details:     details(in, base),
	}
}

func fromTally(in Input) (domain.Verdict, float64, string) {
	t := in.Tally
	total := t.Total()
	if total > 0 {
		n := float64(total)
		switch {
		case t.Malicious >= 2 || float64(t.Malicious)/n > maliciousShare:
			score := math.Min(1, (float64(t.Malicious)+float64(t.Suspicious)*0.5)/n)
			return domain.VerdictMalicious, score,
				fmt.Sprintf("Flagged as malicious by %d of %d security vendors.", t.Malicious, total)
		case t.Malicious >= 1:
			return domain.VerdictSuspicious, lowConfidence,
				fmt.Sprintf("Flagged as malicious by %d of %d security vendors (low confidence).", t.Malicious, total)
		case t.Suspicious >= 3 || float64(t.Suspicious)/n > suspiciousShare:
			score := math.Min(1, float64(t.Suspicious)*0.5/n)
			return domain.VerdictSuspicious, score,
				fmt.Sprintf("Flagged as suspicious by %d of %d security vendors.", t.Suspicious, total)
		case t.Harmless+t.Undetected > 0:
			return domain.VerdictSafe, 0,
				fmt.Sprintf("No security vendors flagged this URL (%d engines checked).", total)
		}
	}
	if in.HasMetadata {
		return domain.VerdictSafe, 0, "No detections reported; the reputation service returned metadata only."
	}
	if in.Pending {
		return domain.VerdictSafe, 0, "This URL has not been analyzed before; a provisional result is shown while analysis runs."
	}
	return domain.VerdictError, 0, "Unable to determine URL reputation: no analysis data available."
}

func localRisk(in Input) float64 {
	var risk float64
	if in.Homograph.IsPotentialHomograph {
		risk += homographRisk
		if in.Homograph.SimilarTo != "" {
			risk += mimicRisk
		}
	}
	if in.Heuristics.BareIP {
		risk += bareIPRisk
	}
	if in.Heuristics.RiskyTLD != "" {
		risk += riskyTLDRisk
	}
	if in.Heuristics.LoginPath {
		risk += loginPathRisk
	}
	return risk
}

func explain(in Input, base, final domain.Verdict, sentence string) string {
	switch {
	case in.Homograph.SimilarTo != "":
		return fmt.Sprintf("WARNING: mimics %s. %s", in.Homograph.SimilarTo, sentence)
	case in.Homograph.IsPotentialHomograph:
		return "WARNING: possible homograph domain. " + sentence
	case final != base:
		return fmt.Sprintf("%s Local checks raised concerns: %s.", sentence, strings.Join(in.Heuristics.Reasons(), ", "))
	default:
		return sentence
	}
}

func details(in Input, base domain.Verdict) []domain.Detail {
	out := make([]domain.Detail, 0, 5)

	h := domain.Detail{Category: "Homograph Check", Status: domain.StatusOK,
		Description: "No look-alike characters or trusted-domain imitation detected."}
	if in.Homograph.IsPotentialHomograph {
		h.Status = domain.StatusWarning
		if in.Homograph.SimilarTo != "" {
			h.Status = domain.StatusCritical
		}
		h.Description = strings.Join(in.Homograph.Reasons, "; ")
	}
	out = append(out, h)

	t := in.Tally
	vendor := domain.Detail{Category: "Vendor Analysis",
		Description: fmt.Sprintf("malicious: %d, suspicious: %d, harmless: %d, undetected: %d",
			t.Malicious, t.Suspicious, t.Harmless, t.Undetected)}
	switch {
	case in.Pending && t.Total() == 0:
		vendor.Status = domain.StatusWarning
		vendor.Description = "Analysis pending; no vendor results yet."
	case base == domain.VerdictMalicious:
		vendor.Status = domain.StatusCritical
	case base == domain.VerdictSafe:
		vendor.Status = domain.StatusOK
	default:
		vendor.Status = domain.StatusWarning
	}
	out = append(out, vendor)

	if in.Heuristics.BareIP {
		out = append(out, domain.Detail{Category: "IP Address", Status: domain.StatusWarning,
			Description: "The URL points at a bare IP address instead of a domain name."})
	}
	if in.Heuristics.RiskyTLD != "" {
		out = append(out, domain.Detail{Category: "Top-Level Domain", Status: domain.StatusWarning,
			Description: fmt.Sprintf("The .%s TLD is frequently used for abusive registrations.", in.Heuristics.RiskyTLD)})
	}
	if in.Heuristics.LoginPath {
		out = append(out, domain.Detail{Category: "URL Path", Status: domain.StatusWarning,
			Description: fmt.Sprintf("Unusually long path containing %q, typical of credential phishing.", in.Heuristics.LoginKeyword)})
	}
	return out
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func round(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
