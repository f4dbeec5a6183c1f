package model

import (
	"fmt"
	"strings"
)

// Sport is one of the fixed set of supported sports
type Sport string

const (
	SportFootball    Sport = "Football"
	SportCricket     Sport = "Cricket"
	SportHockey      Sport = "Hockey"
	SportBasketball  Sport = "Basketball"
	SportTennis      Sport = "Tennis"
	SportTableTennis Sport = "Table Tennis"
	SportBaseball    Sport = "Baseball"
)

// DefaultSport is assumed when a caller leaves the sport unset
const DefaultSport = SportFootball

// CategoriesPerSport is the number of prediction categories requested for every sport
const CategoriesPerSport = 8

// Category is a single prediction market label plus the outcome options offered to the model
type Category struct {
	Label   string `json:"label" yaml:"label"`
	Options string `json:"options" yaml:"options"`
}

// SportProfile holds the fixed prompt material for one sport
type SportProfile struct {
	Sport      Sport
	Metrics    string   // Sport-specific team stats the model is asked to research
	Rules      []string // Optional tactical logic rules
	Categories [CategoriesPerSport]Category
}

// AllSports returns the supported sports in display order
func AllSports() []Sport {
	return []Sport{
		SportFootball,
		SportCricket,
		SportHockey,
		SportBasketball,
		SportTennis,
		SportTableTennis,
		SportBaseball,
	}
}

// ParseSport converts user input into a Sport. Empty input yields DefaultSport.
func ParseSport(s string) (Sport, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)

	switch norm {
	case "":
		return DefaultSport, nil
	case "football", "soccer":
		return SportFootball, nil
	case "cricket":
		return SportCricket, nil
	case "hockey", "ice hockey":
		return SportHockey, nil
	case "basketball":
		return SportBasketball, nil
	case "tennis":
		return SportTennis, nil
	case "table tennis", "tabletennis", "ping pong":
		return SportTableTennis, nil
	case "baseball":
		return SportBaseball, nil
	default:
		return "", fmt.Errorf("%w: unsupported sport %q", ErrInvalidQuery, s)
	}
}

// IsValid reports whether s is one of the supported sports
func (s Sport) IsValid() bool {
	_, ok := sportProfiles[s]
	return ok
}

// Profile returns the fixed profile for the sport, falling back to Football
func (s Sport) Profile() SportProfile {
	if p, ok := sportProfiles[s]; ok {
		return p
	}
	return sportProfiles[DefaultSport]
}

// Categories returns the 8 categories for a sport in fixed order.
// Unknown or empty sports fall back to the Football list. The returned slice is a copy.
func Categories(s Sport) []Category {
	p := s.Profile()
	out := make([]Category, len(p.Categories))
	copy(out, p.Categories[:])
	return out
}

// sportProfiles is populated once at init and never mutated
var sportProfiles = map[Sport]SportProfile{
	SportFootball: {
		Sport:   SportFootball,
		Metrics: "average team stats: Corners, Yellow Cards, and Shots on Target (SOT)",
		Rules: []string{
			`If a team has >60% possession avg, favor them for "Corner Win."`,
			`If a team has a "High Press" style and a "Lenient Referee," favor "Under" on Yellow Cards.`,
			`If a team's top striker/attacking key player is injured, decrease "SOT Win" probability.`,
		},
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Result", Options: "1, X, 2"},
			{Label: "Double Chance", Options: "1X, 12, X2"},
			{Label: "Corner Win", Options: "Home, Away, or Draw"},
			{Label: "Corner Double Chance", Options: "1X, 12, X2"},
			{Label: "Yellow Card Win", Options: "Home, Away, or Draw"},
			{Label: "Yellow Card Double Chance", Options: "1X, 12, X2"},
			{Label: "Shots on Target (SOT) Win", Options: "Home, Away, or Draw"},
			{Label: "Shots on Target (SOT) Double Chance", Options: "1X, 12, X2"},
		},
	},
	SportCricket: {
		Sport:   SportCricket,
		Metrics: "average team stats: first-innings totals, run rate, sixes, fours, and wickets per match",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Winner", Options: "Home or Away"},
			{Label: "Toss Winner", Options: "Home or Away"},
			{Label: "Highest Opening Partnership", Options: "Home or Away"},
			{Label: "Most Sixes", Options: "Home, Away, or Tie"},
			{Label: "Most Fours", Options: "Home, Away, or Tie"},
			{Label: "First Innings Total", Options: "Over or Under, with line"},
			{Label: "Most Run Outs", Options: "Home, Away, or Tie"},
			{Label: "Player of the Match Team", Options: "Home or Away"},
		},
	},
	SportHockey: {
		Sport:   SportHockey,
		Metrics: "average team stats: goals for/against, shots on goal, penalty minutes, and power play conversion",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Result", Options: "1, X, 2"},
			{Label: "Double Chance", Options: "1X, 12, X2"},
			{Label: "Total Goals", Options: "Over or Under 5.5"},
			{Label: "Both Teams to Score", Options: "Yes or No"},
			{Label: "Most Shots on Goal", Options: "Home, Away, or Draw"},
			{Label: "Most Penalty Minutes", Options: "Home, Away, or Draw"},
			{Label: "Power Play Goal", Options: "Home, Away, Both, or Neither"},
			{Label: "First Team to Score", Options: "Home or Away"},
		},
	},
	SportBasketball: {
		Sport:   SportBasketball,
		Metrics: "average team stats: points scored/allowed, rebounds, assists, and three-pointers made",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Winner", Options: "Home or Away"},
			{Label: "Point Spread", Options: "Home or Away, with line"},
			{Label: "Total Points", Options: "Over or Under, with line"},
			{Label: "First Half Winner", Options: "Home, Away, or Draw"},
			{Label: "Most Rebounds", Options: "Home or Away"},
			{Label: "Most Assists", Options: "Home or Away"},
			{Label: "Most Three-Pointers Made", Options: "Home or Away"},
			{Label: "Highest Scoring Quarter", Options: "Q1, Q2, Q3, or Q4"},
		},
	},
	SportTennis: {
		Sport:   SportTennis,
		Metrics: "surface record, first-serve percentage, aces, double faults, and break points saved",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Winner", Options: "Home or Away"},
			{Label: "First Set Winner", Options: "Home or Away"},
			{Label: "Total Sets", Options: "Over or Under, with line"},
			{Label: "Total Games", Options: "Over or Under, with line"},
			{Label: "Most Aces", Options: "Home or Away"},
			{Label: "Most Double Faults", Options: "Home or Away"},
			{Label: "Tie-Break in Match", Options: "Yes or No"},
			{Label: "Correct Set Score", Options: "e.g. 2-0, 2-1, 1-2, 0-2"},
		},
	},
	SportTableTennis: {
		Sport:   SportTableTennis,
		Metrics: "recent ranking movement, games won/lost ratio, and points per game",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Winner", Options: "Home or Away"},
			{Label: "First Game Winner", Options: "Home or Away"},
			{Label: "Total Games", Options: "Over or Under, with line"},
			{Label: "Correct Game Score", Options: "e.g. 3-0, 3-1, 3-2"},
			{Label: "First Game Total Points", Options: "Over or Under 18.5"},
			{Label: "Deciding Game Played", Options: "Yes or No"},
			{Label: "Game Handicap", Options: "Home or Away, with line"},
			{Label: "Most Points Won", Options: "Home or Away"},
		},
	},
	SportBaseball: {
		Sport:   SportBaseball,
		Metrics: "starting pitcher ERA, runs per game, hits per game, and bullpen strikeouts",
		Categories: [CategoriesPerSport]Category{
			{Label: "Match Winner", Options: "Home or Away"},
			{Label: "Run Line", Options: "-1.5 or +1.5"},
			{Label: "Total Runs", Options: "Over or Under, with line"},
			{Label: "First Five Innings Winner", Options: "Home, Away, or Draw"},
			{Label: "Most Hits", Options: "Home, Away, or Draw"},
			{Label: "Run in First Inning", Options: "Yes or No"},
			{Label: "Most Strikeouts by Pitchers", Options: "Home, Away, or Draw"},
			{Label: "Team to Score First", Options: "Home or Away"},
		},
	},
}
