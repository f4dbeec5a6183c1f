// Package sources verifies the grounding sources cited by a completion
package sources

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/betthink/internal/metrics"
	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/util"
	"github.com/ppiankov/betthink/internal/worker"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Verifier checks that grounding sources resolve to reachable pages
type Verifier struct {
	fetcher *Fetcher
	robots  *util.RobotsChecker // nil when robots.txt is ignored
	limiter *worker.Limiter
	workers int
}

// Options configures a Verifier
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	Workers       int
	RespectRobots bool
	HTTPProxy     string
	HTTPSProxy    string
	NoProxy       string

	// PerHostRate and PerHostBurst throttle requests to any single host
	PerHostRate  float64
	PerHostBurst int
}

// NewVerifier creates a new verifier
func NewVerifier(opts Options) *Verifier {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PerHostRate <= 0 {
		opts.PerHostRate = 1
	}

	client := util.NewHTTPClient(opts.Timeout, opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy)

	v := &Verifier{
		fetcher: NewFetcher(client, opts.UserAgent, opts.MaxBodyBytes),
		limiter: worker.NewLimiter(opts.PerHostRate, opts.PerHostBurst),
		workers: opts.Workers,
	}
	if opts.RespectRobots {
		v.robots = util.NewRobotsChecker(client, opts.UserAgent, opts.Timeout)
	}
	return v
}

// OptionsFromConfig maps application configuration onto verifier options
func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		UserAgent:     cfg.HTTP.UserAgent,
		Timeout:       cfg.Sources.Timeout,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
		Workers:       cfg.Concurrency.SourceWorkers,
		RespectRobots: cfg.Sources.RespectRobots,
		HTTPProxy:     cfg.HTTP.HTTPProxy,
		HTTPSProxy:    cfg.HTTP.HTTPSProxy,
		NoProxy:       cfg.HTTP.NoProxy,
		PerHostRate:   cfg.RateLimiting.RequestsPerSecond,
		PerHostBurst:  cfg.RateLimiting.BurstSize,
	}
}

// Verify checks every source concurrently and returns one SourceCheck per
// source, in input order. Individual failures are recorded, never returned.
func (v *Verifier) Verify(ctx context.Context, sources []model.SourceRecord) []model.SourceCheck {
	checks := make([]model.SourceCheck, len(sources))
	if len(sources) == 0 {
		return checks
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			checks[i] = v.check(gctx, src.URI)
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

func (v *Verifier) check(ctx context.Context, uri string) model.SourceCheck {
	check := model.SourceCheck{URI: uri, RobotsAllowed: true}

	host, err := worker.HostKey(uri)
	if err != nil {
		check.Error = err.Error()
		metrics.SourceChecks.WithLabelValues(metrics.SourceInaccessible).Inc()
		return check
	}

	var crawlDelay time.Duration
	if v.robots != nil {
		allowed, delay, err := v.robots.CanFetch(ctx, uri)
		if err != nil {
			check.Error = err.Error()
			metrics.SourceChecks.WithLabelValues(metrics.SourceInaccessible).Inc()
			return check
		}
		if !allowed {
			check.RobotsAllowed = false
			check.Error = "disallowed by robots.txt"
			metrics.SourceChecks.WithLabelValues(metrics.SourceBlocked).Inc()
			return check
		}
		crawlDelay = delay
	}

	if err := v.limiter.WaitWithDelay(ctx, host, crawlDelay); err != nil {
		check.Error = err.Error()
		metrics.SourceChecks.WithLabelValues(metrics.SourceInaccessible).Inc()
		return check
	}

	result, err := v.fetcher.FetchWithRetry(ctx, uri)
	if result != nil {
		check.FinalURL = result.FinalURL
		check.StatusCode = result.StatusCode
		check.PageTitle = result.Title
	}

	var statusErr *StatusError
	switch {
	case err == nil:
		check.Accessible = true
	case errors.As(err, &statusErr):
		check.Error = statusErr.Error()
	default:
		check.Error = err.Error()
		// A 2xx page we could not parse is still reachable
		check.Accessible = result != nil && result.StatusCode >= 200 && result.StatusCode < 300
	}

	outcome := metrics.SourceInaccessible
	if check.Accessible {
		outcome = metrics.SourceAccessible
	}
	metrics.SourceChecks.WithLabelValues(outcome).Inc()

	log.Debug().
		Str("uri", uri).
		Str("final_url", check.FinalURL).
		Int("status", check.StatusCode).
		Bool("accessible", check.Accessible).
		Msg("source checked")

	return check
}
