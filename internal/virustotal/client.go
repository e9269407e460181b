package virustotal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"neurasec/internal/domain"
	"neurasec/internal/logger"
)

const (
	DefaultBaseURL   = "https://www.virustotal.com/api/v3"
	DefaultPollDelay = 3 * time.Second
	DefaultTimeout   = 10 * time.Second

	maxBody = 4 << 20
)

var errNotFound = errors.New("not found")

// Client talks to the VirusTotal v3 URL endpoints.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	clock     clockwork.Clock
	pollDelay time.Duration
	limiter   *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithClock(clk clockwork.Clock) Option { return func(c *Client) { c.clock = clk } }

func WithPollDelay(d time.Duration) Option { return func(c *Client) { c.pollDelay = d } }

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithRatePerMinute paces outbound calls; n <= 0 disables pacing.
func WithRatePerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		http:      &http.Client{Timeout: DefaultTimeout},
		clock:     clockwork.NewRealClock(),
		pollDelay: DefaultPollDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URLID is the report key for rawURL: hex SHA-256 of the URL string.
func URLID(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// Lookup submits rawURL, waits the poll delay and reads the analysis. When
// the analysis is unfinished or unknown it falls back to the URL report. Two
// misses yield a Pending report with a nil error. Transport and 5xx failures
// wrap domain.ErrUpstreamUnavailable.
func (c *Client) Lookup(ctx context.Context, rawURL string) (Report, error) {
	log := logger.FromContext(ctx).With(slog.String("url", rawURL))

	id, err := c.submit(ctx, rawURL)
	if err != nil {
		return Report{}, err
	}

	if c.pollDelay > 0 {
		select {
		case <-ctx.Done():
			return Report{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, ctx.Err())
		case <-c.clock.After(c.pollDelay):
		}
	}

	var report rawReport
	var analysis analysisResponse
	err = c.get(ctx, "/analyses/"+url.PathEscape(id), &analysis)
	switch {
	case err == nil && analysis.completed():
		report = analysis
	case err == nil || errors.Is(err, errNotFound):
		log.Debug("analysis not ready, reading url report",
			slog.String("analysis_id", id),
			slog.String("status", analysis.Data.Attributes.Status))
	default:
		log.Warn("analysis fetch failed, reading url report", slog.Any("error", err))
	}

	if report == nil {
		var ur urlResponse
		err := c.get(ctx, "/urls/"+URLID(rawURL), &ur)
		switch {
		case errors.Is(err, errNotFound):
			log.Info("url unknown to reputation service")
			return Report{Pending: true}, nil
		case err != nil:
			return Report{}, err
		}
		report = ur
	}
	return report.normalize(), nil
}

func (c *Client) submit(ctx context.Context, rawURL string) (string, error) {
	form := url.Values{"url": {rawURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("virustotal submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out submitResponse
	if err := c.do(req, &out); err != nil {
		if errors.Is(err, errNotFound) {
			err = fmt.Errorf("%w: submit endpoint not found", domain.ErrUpstreamUnavailable)
		}
		return "", fmt.Errorf("virustotal submit: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("%w: virustotal submit returned no analysis id", domain.ErrUpstreamUnavailable)
	}
	return out.Data.ID, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("virustotal request: %w", err)
	}
	if err := c.do(req, out); err != nil {
		return fmt.Errorf("virustotal %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %s", domain.ErrUpstreamUnavailable, resp.Status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}
