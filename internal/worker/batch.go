package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/betthink/internal/model"
	"gopkg.in/yaml.v3"
)

// Analyzer runs one match analysis
type Analyzer interface {
	Analyze(ctx context.Context, query model.MatchQuery) (*model.Report, error)
}

// AnalysisJob is one match queued for analysis
type AnalysisJob struct {
	ID       string
	Query    model.MatchQuery
	Analyzer Analyzer

	// Limiter throttles calls sharing LimitKey, typically the provider name
	Limiter  *Limiter
	LimitKey string
}

// Execute waits for rate-limit clearance and runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result := &JobResult{JobID: j.ID, Query: j.Query}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.LimitKey); err != nil {
			result.Error = fmt.Errorf("rate limit wait: %w", err)
			return result
		}
	}

	result.Report, result.Error = j.Analyzer.Analyze(ctx, j.Query)
	return result
}

// JobResult is the outcome of one AnalysisJob: a report or an error, never both
type JobResult struct {
	JobID  string
	Query  model.MatchQuery
	Report *model.Report
	Error  error
}

// GetError returns the error from the job result
func (r *JobResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many matches concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	limitKey    string
}

// NewBatchProcessor creates a new batch processor. limiter may be nil.
func NewBatchProcessor(analyzer Analyzer, concurrency int, limiter *Limiter, limitKey string) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
		limitKey:    limitKey,
	}
}

// ProcessQueries analyzes the queries and returns results in input order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []model.MatchQuery) []*JobResult {
	if len(queries) == 0 {
		return []*JobResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	jobs := make([]*AnalysisJob, 0, len(queries))
	for _, q := range queries {
		job := &AnalysisJob{
			ID:       uuid.NewString(),
			Query:    q,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
			LimitKey: b.limitKey,
		}
		if !pool.Submit(job) {
			break
		}
		jobs = append(jobs, job)
	}

	results := pool.Wait()

	out := make([]*JobResult, len(queries))
	for i, q := range queries {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*JobResult)
			continue
		}
		// Never started: the context ended before the job ran
		jobID := ""
		if i < len(jobs) {
			jobID = jobs[i].ID
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &JobResult{JobID: jobID, Query: q, Error: err}
	}

	return out
}

// ProcessFile reads queries from a YAML file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*JobResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// batchFile is the on-disk batch format. A bare list of matches is accepted too.
type batchFile struct {
	Matches []batchEntry `yaml:"matches"`
}

type batchEntry struct {
	Sport   string `yaml:"sport"`
	Home    string `yaml:"home"`
	Away    string `yaml:"away"`
	Context string `yaml:"context"`
}

// ReadQueriesFromFile reads match queries from a YAML file of the form
//
//	matches:
//	  - sport: football
//	    home: Arsenal
//	    away: Chelsea
//	    context: Saka doubtful
//
// Sports are parsed leniently, entries are validated and exact duplicates are dropped.
func ReadQueriesFromFile(filePath string) ([]model.MatchQuery, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	var queries []model.MatchQuery
	seen := make(map[string]bool)

	for i, e := range entries {
		sport, err := model.ParseSport(e.Sport)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", i+1, err)
		}

		q := model.MatchQuery{
			Sport:             sport,
			HomeTeamName:      e.Home,
			AwayTeamName:      e.Away,
			AdditionalContext: strings.TrimSpace(e.Context),
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("match %d: %w", i+1, err)
		}
		q = q.Normalize()

		key := strings.ToLower(strings.Join([]string{string(q.Sport), q.HomeTeamName, q.AwayTeamName, q.AdditionalContext}, "\x1f"))
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
	}

	return queries, nil
}

func decodeEntries(data []byte) ([]batchEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var entries []batchEntry
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
		return entries, nil
	case yaml.MappingNode:
		var file batchFile
		if err := root.Decode(&file); err != nil {
			return nil, err
		}
		return file.Matches, nil
	}
	return nil, errors.New("expected a list of matches or a 'matches' key")
}
