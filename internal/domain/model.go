package domain

import "time"

// Core domain models used internally. API types live in internal/api and are
// mapped at the HTTP adapter; keep these decoupled from the wire shape.

// Verdict is the categorical risk classification of a scanned URL.
type Verdict string

const (
	VerdictSafe       Verdict = "Safe"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictMalicious  Verdict = "Malicious"
	VerdictError      Verdict = "Error"
)

// Severity orders verdicts so that escalation can only move upwards.
func (v Verdict) Severity() int {
	switch v {
	case VerdictMalicious:
		return 3
	case VerdictSuspicious:
		return 2
	case VerdictSafe:
		return 1
	default:
		return 0
	}
}

// Votable reports whether v is accepted as a community feedback verdict.
func (v Verdict) Votable() bool {
	return v == VerdictSafe || v == VerdictSuspicious || v == VerdictMalicious
}

// LegacyVerdict is the vocabulary of the older analyze-url path.
type LegacyVerdict string

const (
	LegacySafe      LegacyVerdict = "Safe"
	LegacyRisky     LegacyVerdict = "Risky"
	LegacyDangerous LegacyVerdict = "Dangerous"
)

// Legacy maps a URL verdict onto the legacy vocabulary. Error has no legacy
// equivalent and is reported as Risky.
func (v Verdict) Legacy() LegacyVerdict {
	switch v {
	case VerdictSafe:
		return LegacySafe
	case VerdictMalicious:
		return LegacyDangerous
	default:
		return LegacyRisky
	}
}

// DetailStatus grades a single check in a ScanResult.
type DetailStatus string

const (
	StatusOK       DetailStatus = "ok"
	StatusWarning  DetailStatus = "warning"
	StatusCritical DetailStatus = "critical"
)

type Detail struct {
	Category    string       `json:"category"`
	Status      DetailStatus `json:"status"`
	Description string       `json:"description"`
}

// ScanResult is the canonical output of the URL verdict engine.
// Score runs from 0 (safe) to 1 (malicious) everywhere.
type ScanResult struct {
	URL              string
	Verdict          Verdict
	Score            float64
	Explanation      string
	Details          []Detail
	VendorResults    map[string]string
	Categories       map[string]string
	Reputation       int
	LastAnalysisDate *time.Time
	TimesSubmitted   int
	FromCache        bool
	Pending          bool

	// Set by the reputation cache on write.
	FetchedAt time.Time
	ExpiresAt time.Time

	// Computed live, never persisted with the cache row.
	CommunityFeedback *FeedbackSummary
	CommunityAdvisory bool
}

// Cacheable reports whether the result may be written to the reputation cache.
func (r ScanResult) Cacheable() bool {
	return !r.Pending && r.Verdict != VerdictError
}

// HistoryEntry is one append-only audit row per scan event.
type HistoryEntry struct {
	ID          string
	URL         string
	Verdict     Verdict
	Score       float64
	Explanation string
	Details     []Detail
	UserID      *string
	FromCache   bool
	Pending     bool
	CreatedAt   time.Time
}

// Tally is the aggregate vote of third-party scanning engines.
type Tally struct {
	Malicious  int
	Suspicious int
	Harmless   int
	Undetected int
}

func (t Tally) Total() int {
	return t.Malicious + t.Suspicious + t.Harmless + t.Undetected
}

// HomographFinding is the structured output of the homograph detector.
type HomographFinding struct {
	IsPotentialHomograph bool
	Reasons              []string
	SimilarTo            string
}

// FeedbackVote is a single user submission against a URL.
type FeedbackVote struct {
	URL             string
	OriginalVerdict Verdict
	UserVerdict     Verdict
	Comment         string
	UserID          *string
	SubmittedAt     time.Time
}

// FeedbackSummary aggregates the per-verdict tallies for one URL.
type FeedbackSummary struct {
	URL      string
	Counts   map[Verdict]int
	Total    int
	Majority Verdict
}
