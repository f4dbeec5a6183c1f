package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned when a match query fails validation
var ErrInvalidQuery = errors.New("invalid match query")

// MatchQuery is a single user submission describing the match to analyze
type MatchQuery struct {
	Sport             Sport  `json:"sport"`
	HomeTeamName      string `json:"homeTeamName"`
	AwayTeamName      string `json:"awayTeamName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Validate checks the query preconditions. An empty sport is accepted and means Football.
func (q MatchQuery) Validate() error {
	if strings.TrimSpace(q.HomeTeamName) == "" {
		return fmt.Errorf("%w: home team name is required", ErrInvalidQuery)
	}
	if strings.TrimSpace(q.AwayTeamName) == "" {
		return fmt.Errorf("%w: away team name is required", ErrInvalidQuery)
	}
	if q.Sport != "" && !q.Sport.IsValid() {
		return fmt.Errorf("%w: unsupported sport %q", ErrInvalidQuery, q.Sport)
	}
	return nil
}

// Normalize returns a copy with trimmed team names and the default sport applied
func (q MatchQuery) Normalize() MatchQuery {
	q.HomeTeamName = strings.TrimSpace(q.HomeTeamName)
	q.AwayTeamName = strings.TrimSpace(q.AwayTeamName)
	if q.Sport == "" {
		q.Sport = DefaultSport
	}
	return q
}

// Title returns a short "Home vs Away" label
func (q MatchQuery) Title() string {
	return fmt.Sprintf("%s vs %s", strings.TrimSpace(q.HomeTeamName), strings.TrimSpace(q.AwayTeamName))
}
