package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/betthink/internal/cache"
	"github.com/ppiankov/betthink/internal/extract"
	"github.com/ppiankov/betthink/internal/llm"
	"github.com/ppiankov/betthink/internal/metrics"
	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/sources"
	"github.com/rs/zerolog/log"
)

// AnalysisFailedMessage is the only failure text shown to users
const AnalysisFailedMessage = "The algorithm encountered a network/service error; verify team names and retry."

// emptyCompletionText replaces a completion that came back with no text
const emptyCompletionText = "Analysis failed."

// ErrAnalysisFailed is returned for every provider failure. The underlying
// cause is logged and never surfaced.
var ErrAnalysisFailed = errors.New(AnalysisFailedMessage)

// Options tunes an Analyzer
type Options struct {
	Model          string
	MaxTokens      int
	Temperature    float64
	WebSearch      bool
	ThinkingBudget int

	// Cache stores finished reports; nil disables caching
	Cache cache.Cache

	// Verifier checks grounding sources after interpretation; nil disables verification
	Verifier *sources.Verifier
}

// OptionsFromConfig builds Options, including the optional cache and verifier
func OptionsFromConfig(cfg *model.Config) Options {
	opts := Options{
		Model:          cfg.LLM.Model,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		WebSearch:      cfg.LLM.WebSearch,
		ThinkingBudget: cfg.LLM.ThinkingBudget,
		Cache:          cache.New(cfg.Cache),
	}
	if cfg.Sources.Verify {
		opts.Verifier = sources.NewVerifier(sources.OptionsFromConfig(cfg))
	}
	return opts
}

// Analyzer turns a match query into a report with exactly one completion call
type Analyzer struct {
	provider llm.Provider
	opts     Options
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(provider llm.Provider, opts Options) *Analyzer {
	return &Analyzer{
		provider: provider,
		opts:     opts,
	}
}

// Provider returns the completion provider in use
func (a *Analyzer) Provider() llm.Provider {
	return a.provider
}

// Analyze validates the query, prompts the provider once and interprets the reply.
// Invalid queries return an error wrapping model.ErrInvalidQuery before any call is
// made; any provider failure returns ErrAnalysisFailed and a nil report.
func (a *Analyzer) Analyze(ctx context.Context, query model.MatchQuery) (*model.Report, error) {
	providerName := a.provider.Name()

	if err := query.Validate(); err != nil {
		metrics.AnalysesTotal.WithLabelValues(providerName, metrics.OutcomeInvalid).Inc()
		return nil, err
	}
	query = query.Normalize()

	logger := log.With().
		Str("provider", providerName).
		Str("sport", string(query.Sport)).
		Str("match", query.Title()).
		Logger()

	var cacheKey string
	if a.opts.Cache != nil {
		cacheKey = cache.CacheKey(query, providerName, a.opts.Model)
		if report, found := cache.GetReport(a.opts.Cache, cacheKey); found {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			metrics.AnalysesTotal.WithLabelValues(providerName, metrics.OutcomeCached).Inc()
			logger.Debug().Str("report_id", report.ID).Msg("serving cached report")
			report.Cached = true
			return report, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:         llm.BuildPrompt(query),
		Model:          a.opts.Model,
		MaxTokens:      a.opts.MaxTokens,
		Temperature:    a.opts.Temperature,
		WebSearch:      a.opts.WebSearch,
		ThinkingBudget: a.opts.ThinkingBudget,
	})
	elapsed := time.Since(start)
	metrics.ProviderDuration.WithLabelValues(providerName).Observe(elapsed.Seconds())

	if err == nil && resp == nil {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", elapsed).Msg("completion failed")
		metrics.AnalysesTotal.WithLabelValues(providerName, metrics.OutcomeFailure).Inc()
		return nil, ErrAnalysisFailed
	}

	text := resp.Text
	if text == "" {
		text = emptyCompletionText
	}

	result := extract.Interpret(text, resp.Citations)

	report := model.NewReport(query, result)
	report.Provider = providerName
	report.Model = resp.Model
	report.TokensUsed = resp.TokensUsed

	if a.opts.Verifier != nil && len(result.Sources) > 0 {
		report.SourceChecks = a.opts.Verifier.Verify(ctx, result.Sources)
	}

	metrics.AnalysesTotal.WithLabelValues(providerName, metrics.OutcomeSuccess).Inc()
	metrics.PredictionsParsed.Observe(float64(len(result.Predictions)))
	if resp.TokensUsed > 0 {
		metrics.ProviderTokens.WithLabelValues(providerName).Add(float64(resp.TokensUsed))
	}

	logger.Info().
		Str("report_id", report.ID).
		Int("predictions", len(result.Predictions)).
		Int("sources", len(result.Sources)).
		Dur("elapsed", elapsed).
		Msg("analysis complete")

	if a.opts.Cache != nil {
		if err := cache.PutReport(a.opts.Cache, cacheKey, report); err != nil {
			logger.Warn().Err(err).Msg("failed to cache report")
		}
	}

	return report, nil
}
