package homograph

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	"neurasec/internal/domain"
)

const (
	ReasonPunycode    = "Domain uses Punycode encoding (xn--), which can hide look-alike characters"
	ReasonMixedScript = "Domain mixes Latin and Cyrillic characters"
	ReasonConfusable  = "Domain contains visually confusable characters"
)

// Detector compares candidate domains against a fixed trusted list. The
// trusted entries are normalized once at construction.
type Detector struct {
	trusted    []string
	normalized []string
}

func NewDetector(trusted []string) *Detector {
	d := &Detector{
		trusted:    make([]string, 0, len(trusted)),
		normalized: make([]string, 0, len(trusted)),
	}
	for _, t := range trusted {
		t = stripWWW(strings.ToLower(strings.TrimSpace(t)))
		if t == "" {
			continue
		}
		d.trusted = append(d.trusted, t)
		d.normalized = append(d.normalized, Normalize(t))
	}
	return d
}

// Detect is a convenience wrapper for one-off checks.
func Detect(host string, trusted []string) domain.HomographFinding {
	return NewDetector(trusted).Detect(host)
}

// Detect inspects host for punycode, Latin/Cyrillic mixing, near matches of a
// trusted domain and confusable characters, in that order. Hosts under a
// trusted domain are clean. It is pure and does no I/O.
func (d *Detector) Detect(host string) domain.HomographFinding {
	lower := strings.ToLower(strings.TrimSpace(host))
	if d.owned(stripWWW(lower)) {
		return domain.HomographFinding{}
	}
	var reasons []string

	display := lower
	if strings.Contains(lower, "xn--") {
		reasons = append(reasons, ReasonPunycode)
		if decoded, err := idna.ToUnicode(lower); err == nil && decoded != "" {
			display = strings.ToLower(decoded)
		}
	}

	if hasMixedScript(display) {
		reasons = append(reasons, ReasonMixedScript)
	}

	var similarTo string
	if similar, ok := d.closestTrusted(stripWWW(display)); ok {
		reasons = append(reasons, fmt.Sprintf("Domain closely resembles trusted domain %s", similar))
		similarTo = similar
	}

	if ContainsConfusable(display) {
		reasons = append(reasons, ReasonConfusable)
	}

	return domain.HomographFinding{
		IsPotentialHomograph: len(reasons) > 0,
		Reasons:              reasons,
		SimilarTo:            similarTo,
	}
}

// owned reports whether host is a trusted domain or a subdomain of one. Such
// hosts belong to the trusted registrant and imitate nothing.
func (d *Detector) owned(host string) bool {
	for _, t := range d.trusted {
		if host == t || strings.HasSuffix(host, "."+t) {
			return true
		}
	}
	return false
}

// closestTrusted returns the trusted domain with the smallest edit distance
// to candidate that is within threshold. Ties keep the first entry in list
// order.
func (d *Detector) closestTrusted(candidate string) (string, bool) {
	normalized := Normalize(candidate)
	best, bestDist := -1, 0
	for i := range d.trusted {
		limit := threshold(d.normalized[i])
		dist := Distance(normalized, d.normalized[i])
		if dist > limit {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return "", false
	}
	return d.trusted[best], true
}

func threshold(trusted string) int {
	return min(3, len([]rune(trusted))/5)
}

// hasMixedScript is intentionally narrow: ASCII Latin letters alongside any
// code point from the Cyrillic block (U+0400 to U+04FF).
func hasMixedScript(s string) bool {
	var latin, cyrillic bool
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin = true
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic = true
		}
		if latin && cyrillic {
			return true
		}
	}
	return false
}

func stripWWW(s string) string {
	return strings.TrimPrefix(s, "www.")
}
