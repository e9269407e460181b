package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"neurasec/internal/domain"
	"neurasec/internal/heuristics"
	"neurasec/internal/homograph"
	"neurasec/internal/logger"
	"neurasec/internal/ports"
	"neurasec/internal/ratelimit"
	"neurasec/internal/trust"
	"neurasec/internal/verdict"
	"neurasec/internal/virustotal"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Lookup queries the external reputation service.
type Lookup interface {
	Lookup(ctx context.Context, rawURL string) (virustotal.Report, error)
}

// Cache is the read side of the reputation cache.
type Cache interface {
	Get(ctx context.Context, url string) (domain.ScanResult, bool)
}

// Evictor is called once per scan that reaches the rate limiter.
type Evictor interface {
	MaybeEvict(ctx context.Context) bool
}

type Deps struct {
	Trusted    *trust.Set
	Heuristics *heuristics.Analyzer
	Cache      Cache
	Limiter    ratelimit.Limiter
	Lookup     Lookup
	Persister  ports.Persister
	History    ports.HistoryRepository
	Feedback   ports.FeedbackRepository
	// Evictor is optional; nil when a scheduled sweeper owns eviction.
	Evictor  Evictor
	MinVotes int
}

type Service struct {
	trusted  *trust.Set
	detector *homograph.Detector
	heur     *heuristics.Analyzer
	cache    Cache
	limiter  ratelimit.Limiter
	lookup   Lookup
	persist  ports.Persister
	history  ports.HistoryRepository
	feedback ports.FeedbackRepository
	evictor  Evictor
	minVotes int

	inflight singleflight.Group
}

func New(d Deps) *Service {
	minVotes := d.MinVotes
	if minVotes < 1 {
		minVotes = 3
	}
	return &Service{
		trusted:  d.Trusted,
		detector: homograph.NewDetector(d.Trusted.Domains()),
		heur:     d.Heuristics,
		cache:    d.Cache,
		limiter:  d.Limiter,
		lookup:   d.Lookup,
		persist:  d.Persister,
		history:  d.History,
		feedback: d.Feedback,
		evictor:  d.Evictor,
		minVotes: minVotes,
	}
}

// Scan runs the verdict pipeline for one URL.
//
// Validation and rate-limit failures return an error with an Error-shaped
// result. Upstream failures and caller timeouts return an Error result,
// together with an error wrapping domain.ErrUpstreamUnavailable.
func (s *Service) Scan(ctx context.Context, req ports.ScanRequest) (domain.ScanResult, error) {
	target, err := Normalize(req.URL)
	if err != nil {
		return errorResult(req.URL, "URL Validation", err.Error()), err
	}
	log := logger.FromContext(ctx).With(slog.String("url", target.URL))

	var finding domain.HomographFinding
	if !target.IsIP {
		finding = s.detector.Detect(target.DisplayHost)
	}

	if res, ok := s.cache.Get(ctx, target.URL); ok && consistent(res, finding) {
		log.Debug("reputation cache hit")
		s.persist.Enqueue(ports.PersistJob{Result: res, UserID: req.UserID})
		return s.withCommunity(ctx, res), nil
	}

	if !finding.IsPotentialHomograph && s.trusted.IsTrusted(target.Parsed) {
		res := trustedResult(target.URL)
		s.persist.Enqueue(ports.PersistJob{Result: res, Cache: true, UserID: req.UserID})
		return s.withCommunity(ctx, res), nil
	}

	if !s.limiter.Allow(ctx, req.ClientKey) {
		log.Info("rate limited", slog.String("client", req.ClientKey))
		return errorResult(target.URL, "Rate Limit", "Too many scan requests. Please wait a minute and try again."), domain.ErrRateLimited
	}
	if s.evictor != nil {
		s.evictor.MaybeEvict(ctx)
	}

	// The shared lookup outlives any single caller; a caller whose context
	// ends first stops waiting and gets an Error result.
	ch := s.inflight.DoChan(target.URL, func() (any, error) {
		res, err := s.evaluate(context.WithoutCancel(ctx), target, finding)
		return evaluation{res: res, err: err}, nil
	})
	var ev evaluation
	select {
	case r := <-ch:
		ev = r.Val.(evaluation)
	case <-ctx.Done():
		log.Warn("gave up waiting for reputation lookup", slog.Any("error", ctx.Err()))
		return errorResult(target.URL, "Reputation Lookup", "The reputation check took too long. Please try again later."),
			fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, ctx.Err())
	}
	res := ev.res
	res.Details = slices.Clone(res.Details)

	if ev.err != nil {
		log.Warn("reputation lookup failed", slog.Any("error", ev.err))
	}
	s.persist.Enqueue(ports.PersistJob{
		Result: res,
		Cache:  ev.err == nil && res.Cacheable(),
		UserID: req.UserID,
	})
	return s.withCommunity(ctx, res), ev.err
}

type evaluation struct {
	res domain.ScanResult
	err error
}

func (s *Service) evaluate(ctx context.Context, target Target, finding domain.HomographFinding) (domain.ScanResult, error) {
	report, lookupErr := s.lookup.Lookup(ctx, target.URL)
	if lookupErr != nil {
		report = virustotal.Report{}
	}

	out := verdict.Fuse(verdict.Input{
		Tally:       report.Tally,
		HasMetadata: report.HasMetadata(),
		Pending:     report.Pending,
		Heuristics:  s.heur.Analyze(target.Parsed),
		Homograph:   finding,
	})
	res := domain.ScanResult{
		URL:              target.URL,
		Verdict:          out.Verdict,
		Score:            out.Score,
		Explanation:      out.Explanation,
		Details:          out.Details,
		VendorResults:    report.VendorResults,
		Categories:       report.Categories,
		Reputation:       report.Reputation,
		LastAnalysisDate: report.LastAnalysisDate,
		TimesSubmitted:   report.TimesSubmitted,
		Pending:          report.Pending,
	}
	if lookupErr != nil && res.Verdict == domain.VerdictError {
		res.Explanation = "Unable to reach the reputation service. Please try again later."
	}
	return res, lookupErr
}

// withCommunity merges live feedback into res. Read failures are logged.
func (s *Service) withCommunity(ctx context.Context, res domain.ScanResult) domain.ScanResult {
	counts, err := s.feedback.FeedbackCounts(ctx, res.URL)
	if err != nil {
		logger.FromContext(ctx).Warn("feedback read failed", slog.String("url", res.URL), slog.Any("error", err))
		return res
	}
	verdict.ApplyCommunity(&res, verdict.Summarize(res.URL, counts), s.minVotes)
	return res
}

// History lists recent audit rows for rawURL, newest first.
func (s *Service) History(ctx context.Context, rawURL string, limit int) ([]domain.HistoryEntry, error) {
	target, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.history.ListHistory(ctx, target.URL, limit)
}

// consistent rejects a cached verdict that is milder than the current
// homograph finding allows, e.g. after the trusted list changed.
func consistent(res domain.ScanResult, finding domain.HomographFinding) bool {
	switch {
	case finding.SimilarTo != "":
		return res.Verdict == domain.VerdictMalicious
	case finding.IsPotentialHomograph:
		return res.Verdict.Severity() >= domain.VerdictSuspicious.Severity()
	}
	return true
}

func trustedResult(url string) domain.ScanResult {
	return domain.ScanResult{
		URL:         url,
		Verdict:     domain.VerdictSafe,
		Score:       0,
		Explanation: "This domain is on the trusted list.",
		Details: []domain.Detail{
			{Category: "Homograph Check", Status: domain.StatusOK, Description: "No look-alike characters or trusted-domain imitation detected."},
			{Category: "Trusted Domain", Status: domain.StatusOK, Description: "Hostname matches a trusted domain."},
		},
	}
}

func errorResult(url, category, reason string) domain.ScanResult {
	return domain.ScanResult{
		URL:         url,
		Verdict:     domain.VerdictError,
		Explanation: reason,
		Details:     []domain.Detail{{Category: category, Status: domain.StatusWarning, Description: reason}},
	}
}
