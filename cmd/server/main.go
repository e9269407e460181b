package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"

	httpadapter "neurasec/internal/adapters/http"
	"neurasec/internal/adapters/memory"
	pg "neurasec/internal/adapters/postgres"
	"neurasec/internal/adapters/sqlite"
	"neurasec/internal/cache"
	"neurasec/internal/config"
	"neurasec/internal/heuristics"
	"neurasec/internal/logger"
	"neurasec/internal/ports"
	"neurasec/internal/ratelimit"
	feedbacksvc "neurasec/internal/services/feedback"
	scansvc "neurasec/internal/services/scanner"
	"neurasec/internal/trust"
	"neurasec/internal/virustotal"
	"neurasec/internal/workers/persist"
	"neurasec/internal/workers/sweeper"
)

var (
	_ ports.Store = (*memory.Store)(nil)
	_ ports.Store = (*sqlite.DB)(nil)
	_ ports.Store = (*pg.DB)(nil)
)

func main() {
	if err := run(); err != nil {
		logger.Get().Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("storage ready", slog.String("store", cfg.Store))

	trusted, err := trust.Load(cfg.TrustedDomainsFile)
	if err != nil {
		return multierr.Append(fmt.Errorf("trusted domains: %w", err), store.Close())
	}
	heur, err := heuristics.New()
	if err != nil {
		return multierr.Append(fmt.Errorf("heuristics: %w", err), store.Close())
	}

	clock := clockwork.NewRealClock()
	if cfg.VirusTotal.APIKey == "" {
		log.Warn("no reputation API key configured; lookups will fail and only local checks apply")
	}
	vt := virustotal.New(cfg.VirusTotal.BaseURL, cfg.VirusTotal.APIKey,
		virustotal.WithClock(clock),
		virustotal.WithTimeout(cfg.VirusTotal.Timeout),
		virustotal.WithPollDelay(cfg.VirusTotal.PollDelay),
		virustotal.WithRatePerMinute(cfg.VirusTotal.RatePerMinute),
	)
	reputation := cache.New(store, clock, cfg.Cache.TTL, cfg.Cache.Grace)

	var counters interface {
		ports.CounterStore
		ports.CounterPruner
	} = ratelimit.NewMemoryStore()
	if cfg.RateLimit.Store == config.RateLimitShared {
		counters = store
	}
	limiter := ratelimit.NewFixedWindow(counters, clock, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	queue := persist.New(reputation, store, clock, cfg.Persist.Queue)
	queue.Start(cfg.Persist.Workers)

	bg, cancelBG := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancelBG()

	var (
		evictor scansvc.Evictor
		prob    *sweeper.Probabilistic
	)
	switch cfg.Cache.EvictionMode {
	case config.EvictionProbabilistic:
		prob = sweeper.NewProbabilistic(reputation, cfg.Cache.EvictionProbability)
		evictor = prob
	default:
		sw := sweeper.New(reputation, counters, cfg.RateLimit.Window, clock, cfg.Cache.SweepInterval)
		go sw.Run(bg)
		log.Info("cache sweeper started", slog.Duration("interval", cfg.Cache.SweepInterval))
	}

	scanner := scansvc.New(scansvc.Deps{
		Trusted:    trusted,
		Heuristics: heur,
		Cache:      reputation,
		Limiter:    limiter,
		Lookup:     vt,
		Persister:  queue,
		History:    store,
		Feedback:   store,
		Evictor:    evictor,
		MinVotes:   cfg.FeedbackMinVotes,
	})
	feedback := feedbacksvc.New(store, clock)

	srv := httpadapter.New(scanner, feedback, store, cfg.TrustProxy)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// A scan can wait on the poll delay plus two upstream calls.
		WriteTimeout: cfg.VirusTotal.PollDelay + 3*cfg.VirusTotal.Timeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	log.Info("listening", slog.String("addr", cfg.ListenAddr), slog.String("env", cfg.Env))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cancelBG()
	shutdownErr := multierr.Combine(serveErr, httpServer.Shutdown(shutdownCtx))
	if prob != nil {
		prob.Wait()
	}
	return multierr.Combine(
		shutdownErr,
		queue.Stop(shutdownCtx),
		store.Close(),
	)
}

func openStore(ctx context.Context, cfg config.Config) (ports.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return db, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return db, nil
	default:
		return memory.New(), nil
	}
}
