package model

import (
	"time"

	"github.com/google/uuid"
)

// Report wraps one analysis with the metadata needed to render or transport it
type Report struct {
	ID          string         `json:"id"`
	Query       MatchQuery     `json:"query"`
	Result      AnalysisResult `json:"result"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt"`
	TokensUsed  int            `json:"tokensUsed,omitempty"`
	Cached      bool           `json:"cached,omitempty"`

	SourceChecks []SourceCheck `json:"sourceChecks,omitempty"` // Only when source verification is enabled
}

// NewReport creates a report with a fresh ID and timestamp
func NewReport(query MatchQuery, result AnalysisResult) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Query:       query,
		Result:      result,
		GeneratedAt: time.Now().UTC(),
	}
}

// SourceCheck is the outcome of verifying one grounding source
type SourceCheck struct {
	URI           string `json:"uri"`
	FinalURL      string `json:"finalUrl,omitempty"` // After following grounding redirects
	StatusCode    int    `json:"statusCode,omitempty"`
	Accessible    bool   `json:"accessible"`
	RobotsAllowed bool   `json:"robotsAllowed"`
	PageTitle     string `json:"pageTitle,omitempty"`
	Error         string `json:"error,omitempty"`
}

// VerifiedCount returns how many checked sources were accessible
func (r *Report) VerifiedCount() int {
	n := 0
	for _, c := range r.SourceChecks {
		if c.Accessible {
			n++
		}
	}
	return n
}
