package scanner

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"neurasec/internal/domain"
)

// Target is a validated scan target.
type Target struct {
	// URL is the canonical cache and history key.
	URL    string
	Parsed *url.URL
	// DisplayHost is the lowercased host as submitted, before IDNA encoding.
	DisplayHost string
	IsIP        bool
}

// Normalize validates raw and returns its canonical form. A missing scheme
// becomes https. Non-ASCII hosts are punycode-encoded without UTS-46
// mapping so look-alike characters never fold onto the genuine domain.
func Normalize(raw string) (Target, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Target{}, domain.Invalid("url", "URL is required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return Target{}, domain.Invalid("url", "malformed URL")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, domain.Invalid("url", "unsupported scheme %q", u.Scheme)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return Target{}, domain.Invalid("url", "URL has no hostname")
	}

	t := Target{DisplayHost: host}
	ascii := host
	if ip := net.ParseIP(host); ip != nil {
		t.IsIP = true
	} else {
		ascii, err = idna.Punycode.ToASCII(host)
		if err != nil {
			return Target{}, domain.Invalid("url", "invalid hostname")
		}
		if i := strings.LastIndexByte(ascii, '.'); i <= 0 || i == len(ascii)-1 {
			return Target{}, domain.Invalid("url", "hostname has no top-level domain")
		}
	}

	if port := u.Port(); port != "" && !defaultPort(u.Scheme, port) {
		u.Host = net.JoinHostPort(ascii, port)
	} else if strings.Contains(ascii, ":") {
		u.Host = "[" + ascii + "]"
	} else {
		u.Host = ascii
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil

	t.Parsed = u
	t.URL = u.String()
	return t, nil
}

func defaultPort(scheme, port string) bool {
	return (scheme == "https" && port == "443") || (scheme == "http" && port == "80")
}
