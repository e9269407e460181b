package heuristics

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	ac "github.com/anknown/ahocorasick"
	"golang.org/x/net/publicsuffix"
)

// RiskyTLDs is the static denylist of top-level domains with a high share of
// abusive registrations.
var RiskyTLDs = map[string]bool{
	"xyz":   true,
	"top":   true,
	"gq":    true,
	"work":  true,
	"date":  true,
	"click": true,
	"tk":    true,
	"ml":    true,
	"cf":    true,
	"ga":    true,
	"loan":  true,
}

// LoginKeywords flag credential-harvesting paths.
var LoginKeywords = []string{
	"login", "log-in", "signin", "sign-in", "logon", "verify", "account",
	"secure", "update", "password", "banking", "webscr", "auth", "wallet",
	"confirm", "unlock",
}

// longPathThreshold is the path plus query length, in bytes, above which a
// login keyword counts as suspicious.
const longPathThreshold = 50

// Result holds the local, network-free signals for one URL.
type Result struct {
	BareIP       bool
	RiskyTLD     string
	LoginPath    bool
	LoginKeyword string
}

// Any reports whether at least one heuristic fired.
func (r Result) Any() bool {
	return r.BareIP || r.RiskyTLD != "" || r.LoginPath
}

// Reasons lists the fired heuristics as short human-readable phrases.
func (r Result) Reasons() []string {
	var out []string
	if r.BareIP {
		out = append(out, "hostname is a bare IP address")
	}
	if r.RiskyTLD != "" {
		out = append(out, fmt.Sprintf("uses high-risk TLD .%s", r.RiskyTLD))
	}
	if r.LoginPath {
		out = append(out, fmt.Sprintf("long login-style path (%q)", r.LoginKeyword))
	}
	return out
}

// Analyzer owns the keyword automaton; safe for concurrent use after New.
type Analyzer struct {
	machine ac.Machine
}

func New() (*Analyzer, error) {
	dict := make([][]rune, len(LoginKeywords))
	for i, kw := range LoginKeywords {
		dict[i] = []rune(kw)
	}
	a := &Analyzer{}
	if err := a.machine.Build(dict); err != nil {
		return nil, fmt.Errorf("build keyword automaton: %w", err)
	}
	return a, nil
}

func (a *Analyzer) Analyze(u *url.URL) Result {
	var res Result
	host := strings.ToLower(u.Hostname())

	if net.ParseIP(host) != nil {
		res.BareIP = true
	} else if suffix, _ := publicsuffix.PublicSuffix(host); suffix != "" {
		tld := suffix
		if i := strings.LastIndex(suffix, "."); i >= 0 {
			tld = suffix[i+1:]
		}
		if RiskyTLDs[tld] {
			res.RiskyTLD = tld
		}
	}

	tail := u.EscapedPath()
	if u.RawQuery != "" {
		tail += "?" + u.RawQuery
	}
	if len(tail) > longPathThreshold {
		terms := a.machine.MultiPatternSearch([]rune(strings.ToLower(tail)), true)
		if len(terms) > 0 {
			res.LoginPath = true
			res.LoginKeyword = string(terms[0].Word)
		}
	}
	return res
}
