package trust

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultDomains is the built-in allow-list. Entries are bare registrable
// domains without scheme or www prefix.
var DefaultDomains = []string{
	"google.com", "youtube.com", "facebook.com", "amazon.com", "apple.com",
	"microsoft.com", "paypal.com", "netflix.com", "github.com", "linkedin.com",
	"twitter.com", "instagram.com", "wikipedia.org", "yahoo.com",
	"bing.com", "dropbox.com", "chase.com", "bankofamerica.com", "wellsfargo.com",
	"citibank.com", "ebay.com", "outlook.com", "live.com", "office.com",
	"icloud.com", "whatsapp.com", "stripe.com", "gmail.com", "reddit.com",
	"adobe.com", "zoom.us", "slack.com", "spotify.com", "coinbase.com",
	"binance.com",
}

// Set is an immutable trusted-domain list.
type Set struct {
	domains []string
}

// New canonicalizes and dedupes domains. Entries that are themselves public
// suffixes, such as "com" or "github.io", are dropped since trusting one would
// trust every registrant beneath it.
func New(domains []string) *Set {
	s := &Set{domains: make([]string, 0, len(domains))}
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		d = canonical(d)
		if d == "" || seen[d] || isPublicSuffix(d) {
			continue
		}
		seen[d] = true
		s.domains = append(s.domains, d)
	}
	return s
}

// Load reads one domain per line from path, skipping blanks and '#' comments,
// and merges them after the defaults. An empty path returns the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return New(DefaultDomains), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	domains := append([]string(nil), DefaultDomains...)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trusted domains %s: %w", path, err)
	}
	return New(domains), nil
}

// Domains returns a copy of the list in load order.
func (s *Set) Domains() []string {
	return append([]string(nil), s.domains...)
}

// Contains reports whether host equals a trusted entry or is a subdomain of
// one, ignoring case and a leading www.
func (s *Set) Contains(host string) bool {
	host = canonical(host)
	if host == "" {
		return false
	}
	for _, d := range s.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// IsTrusted applies Contains to the hostname of u.
func (s *Set) IsTrusted(u *url.URL) bool {
	if u == nil {
		return false
	}
	return s.Contains(u.Hostname())
}

// IsTrusted checks u against an ad-hoc list.
func IsTrusted(u *url.URL, trusted []string) bool {
	return New(trusted).IsTrusted(u)
}

func canonical(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimSuffix(d, ".")
	return strings.TrimPrefix(d, "www.")
}

func isPublicSuffix(d string) bool {
	suffix, _ := publicsuffix.PublicSuffix(d)
	return suffix == d
}
