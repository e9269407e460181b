package heuristics

import (
	"net/url"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}

func TestAnalyze(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	longLogin := "/" + strings.Repeat("x", 40) + "/account/login.php"
	longBenign := "/" + strings.Repeat("blog-post-", 8)

	tests := []struct {
		name     string
		rawURL   string
		bareIP   bool
		riskyTLD string
		login    bool
	}{
		{name: "plain domain", rawURL: "https://example.com/"},
		{name: "ipv4 host", rawURL: "http://192.168.10.4/index.html", bareIP: true},
		{name: "ipv6 host", rawURL: "http://[2001:db8::1]/", bareIP: true},
		{name: "risky tld", rawURL: "https://free-prizes.xyz/", riskyTLD: "xyz"},
		{name: "risky tld uppercase", rawURL: "https://FREE.TOP/", riskyTLD: "top"},
		{name: "safe multi-label suffix", rawURL: "https://shop.example.co.uk/"},
		{name: "long login path", rawURL: "https://example.com" + longLogin, login: true},
		{name: "short login path", rawURL: "https://example.com/login"},
		{name: "long benign path", rawURL: "https://example.com" + longBenign},
		{name: "keyword in query", rawURL: "https://example.com/p?" + strings.Repeat("q", 45) + "&next=signin", login: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Analyze(mustParse(t, tt.rawURL))
			if res.BareIP != tt.bareIP {
				t.Errorf("BareIP = %v, want %v", res.BareIP, tt.bareIP)
			}
			if res.RiskyTLD != tt.riskyTLD {
				t.Errorf("RiskyTLD = %q, want %q", res.RiskyTLD, tt.riskyTLD)
			}
			if res.LoginPath != tt.login {
				t.Errorf("LoginPath = %v, want %v", res.LoginPath, tt.login)
			}
			wantAny := tt.bareIP || tt.riskyTLD != "" || tt.login
			if res.Any() != wantAny {
				t.Errorf("Any() = %v, want %v", res.Any(), wantAny)
			}
			if len(res.Reasons()) == 0 && wantAny {
				t.Error("Expected reasons when a heuristic fired")
			}
		})
	}
}
