package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const prefix = "NEURASEC_"

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	// RateLimitShared keeps rate-limit counters in the database store.
	RateLimitShared = "shared"

	EvictionSweep         = "sweep"
	EvictionProbabilistic = "probabilistic"
)

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string
	Store       string
	SQLitePath  string

	TrustedDomainsFile string
	FeedbackMinVotes   int
	TrustProxy         bool

	LogLevel  string
	LogFormat string

	VirusTotal VirusTotalConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Persist    PersistConfig
}

type VirusTotalConfig struct {
	APIKey        string
	BaseURL       string
	PollDelay     time.Duration
	Timeout       time.Duration
	RatePerMinute int
}

type CacheConfig struct {
	TTL                 time.Duration
	Grace               time.Duration
	EvictionMode        string
	EvictionProbability float64
	SweepInterval       time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Store selects process memory or the shared database counters.
	Store string
}

type PersistConfig struct {
	Workers int
	Queue   int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// env reads a prefixed key into one of the supported kinds, recording parse
// failures in errs instead of stopping at the first one.
type env struct{ errs error }

func (e *env) str(key, def string) string {
	return getenv(prefix+key, def)
}

func (e *env) int(key string, def int) int {
	v := os.Getenv(prefix + key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = multierr.Append(e.errs, fmt.Errorf("%s%s: invalid integer %q", prefix, key, v))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	v := os.Getenv(prefix + key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = multierr.Append(e.errs, fmt.Errorf("%s%s: invalid number %q", prefix, key, v))
		return def
	}
	return f
}

func (e *env) bool(key string, def bool) bool {
	v := os.Getenv(prefix + key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = multierr.Append(e.errs, fmt.Errorf("%s%s: invalid boolean %q", prefix, key, v))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(prefix + key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = multierr.Append(e.errs, fmt.Errorf("%s%s: invalid duration %q", prefix, key, v))
		return def
	}
	return d
}

// Load reads an optional .env file, then the environment. Every invalid value
// is reported in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var e env
	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  e.str("SQLITE_PATH", "neurasec.db"),

		TrustedDomainsFile: e.str("TRUSTED_DOMAINS_FILE", ""),
		FeedbackMinVotes:   e.int("FEEDBACK_MIN_VOTES", 3),
		TrustProxy:         e.bool("TRUST_PROXY", false),

		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "text"),

		VirusTotal: VirusTotalConfig{
			APIKey:        e.str("VT_API_KEY", ""),
			BaseURL:       e.str("VT_BASE_URL", "https://www.virustotal.com/api/v3"),
			PollDelay:     e.duration("VT_POLL_DELAY", 3*time.Second),
			Timeout:       e.duration("VT_TIMEOUT", 10*time.Second),
			RatePerMinute: e.int("VT_RATE_PER_MINUTE", 0),
		},
		Cache: CacheConfig{
			TTL:                 e.duration("CACHE_TTL", 6*time.Hour),
			Grace:               e.duration("CACHE_GRACE", 24*time.Hour),
			EvictionMode:        strings.ToLower(e.str("EVICTION_MODE", EvictionSweep)),
			EvictionProbability: e.float("EVICTION_PROBABILITY", 0.05),
			SweepInterval:       e.duration("SWEEP_INTERVAL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Limit:  e.int("RATE_LIMIT", 10),
			Window: e.duration("RATE_WINDOW", 60*time.Second),
			Store:  strings.ToLower(e.str("RATE_LIMIT_STORE", StoreMemory)),
		},
		Persist: PersistConfig{
			Workers: e.int("PERSIST_WORKERS", 2),
			Queue:   e.int("PERSIST_QUEUE", 256),
		},
	}

	defStore := StoreMemory
	if cfg.DatabaseURL != "" {
		defStore = StorePostgres
	}
	cfg.Store = strings.ToLower(e.str("STORE", defStore))

	if e.errs != nil {
		return cfg, e.errs
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	var errs error
	if c.ListenAddr == "" {
		errs = multierr.Append(errs, fmt.Errorf("LISTEN_ADDR cannot be empty"))
	}
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = multierr.Append(errs, fmt.Errorf("%sSQLITE_PATH is required for the sqlite store", prefix))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = multierr.Append(errs, fmt.Errorf("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%sSTORE: unknown store %q", prefix, c.Store))
	}
	if c.RateLimit.Store != StoreMemory && c.RateLimit.Store != RateLimitShared {
		errs = multierr.Append(errs, fmt.Errorf("%sRATE_LIMIT_STORE must be memory or shared", prefix))
	}
	if c.RateLimit.Store == RateLimitShared && c.Store == StoreMemory {
		errs = multierr.Append(errs, fmt.Errorf("%sRATE_LIMIT_STORE=shared needs a database store", prefix))
	}
	if c.RateLimit.Limit < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%sRATE_LIMIT must be positive", prefix))
	}
	if c.RateLimit.Window <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sRATE_WINDOW must be positive", prefix))
	}
	if c.Cache.TTL <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sCACHE_TTL must be positive", prefix))
	}
	if c.Cache.Grace < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sCACHE_GRACE cannot be negative", prefix))
	}
	switch c.Cache.EvictionMode {
	case EvictionSweep:
		if c.Cache.SweepInterval <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%sSWEEP_INTERVAL must be positive", prefix))
		}
	case EvictionProbabilistic:
		if c.Cache.EvictionProbability <= 0 || c.Cache.EvictionProbability > 1 {
			errs = multierr.Append(errs, fmt.Errorf("%sEVICTION_PROBABILITY must be in (0,1]", prefix))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%sEVICTION_MODE: unknown mode %q", prefix, c.Cache.EvictionMode))
	}
	if c.VirusTotal.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sVT_TIMEOUT must be positive", prefix))
	}
	if c.VirusTotal.PollDelay < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sVT_POLL_DELAY cannot be negative", prefix))
	}
	if c.VirusTotal.RatePerMinute < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sVT_RATE_PER_MINUTE cannot be negative", prefix))
	}
	if c.Persist.Workers < 0 || c.Persist.Queue < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%sPERSIST_WORKERS and %sPERSIST_QUEUE cannot be negative", prefix, prefix))
	}
	if c.FeedbackMinVotes < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%sFEEDBACK_MIN_VOTES must be positive", prefix))
	}
	return errs
}
