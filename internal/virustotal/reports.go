package virustotal

import (
	"time"

	"neurasec/internal/domain"
)

// Report is the normalized view of either response shape the API returns.
type Report struct {
	Tally            domain.Tally
	VendorResults    map[string]string
	Categories       map[string]string
	Reputation       int
	LastAnalysisDate *time.Time
	TimesSubmitted   int
	// Pending means neither the fresh analysis nor the URL report had data.
	Pending bool
}

// HasMetadata reports whether the API returned anything besides engine votes.
func (r Report) HasMetadata() bool {
	return len(r.Categories) > 0 || r.Reputation != 0 || r.LastAnalysisDate != nil || r.TimesSubmitted > 0
}

type stats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

func (s stats) tally() domain.Tally {
	return domain.Tally{
		Malicious:  s.Malicious,
		Suspicious: s.Suspicious,
		Harmless:   s.Harmless,
		Undetected: s.Undetected,
	}
}

type engineResult struct {
	Category string `json:"category"`
	Result   string `json:"result"`
}

func vendorLabels(in map[string]engineResult) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for name, r := range in {
		label := r.Result
		if label == "" {
			label = r.Category
		}
		out[name] = label
	}
	return out
}

func epoch(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// rawReport is implemented by each wire shape.
type rawReport interface {
	normalize() Report
}

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// analysisResponse is GET /analyses/{id}.
type analysisResponse struct {
	Data struct {
		Attributes struct {
			Status  string                  `json:"status"`
			Date    int64                   `json:"date"`
			Stats   stats                   `json:"stats"`
			Results map[string]engineResult `json:"results"`
		} `json:"attributes"`
	} `json:"data"`
}

func (a analysisResponse) completed() bool {
	return a.Data.Attributes.Status == "completed"
}

func (a analysisResponse) normalize() Report {
	attr := a.Data.Attributes
	return Report{
		Tally:            attr.Stats.tally(),
		VendorResults:    vendorLabels(attr.Results),
		LastAnalysisDate: epoch(attr.Date),
	}
}

// urlResponse is GET /urls/{sha256}.
type urlResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats   stats                   `json:"last_analysis_stats"`
			LastAnalysisResults map[string]engineResult `json:"last_analysis_results"`
			Categories          map[string]string       `json:"categories"`
			Reputation          int                     `json:"reputation"`
			LastAnalysisDate    int64                   `json:"last_analysis_date"`
			TimesSubmitted      int                     `json:"times_submitted"`
		} `json:"attributes"`
	} `json:"data"`
}

func (u urlResponse) normalize() Report {
	attr := u.Data.Attributes
	r := Report{
		Tally:            attr.LastAnalysisStats.tally(),
		VendorResults:    vendorLabels(attr.LastAnalysisResults),
		Reputation:       attr.Reputation,
		LastAnalysisDate: epoch(attr.LastAnalysisDate),
		TimesSubmitted:   attr.TimesSubmitted,
	}
	if len(attr.Categories) > 0 {
		r.Categories = attr.Categories
	}
	return r
}
