package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/betthink/internal/model"
)

func TestBuildPrompt_CategoriesInOrder(t *testing.T) {
	for _, sport := range model.AllSports() {
		t.Run(string(sport), func(t *testing.T) {
			prompt := BuildPrompt(model.MatchQuery{Sport: sport, HomeTeamName: "A", AwayTeamName: "B"})

			last := -1
			for i, c := range model.Categories(sport) {
				line := fmt.Sprintf("%d. %s (%s)", i+1, c.Label, c.Options)
				idx := strings.Index(prompt, line)
				if idx < 0 {
					t.Fatalf("prompt missing category line %q", line)
				}
				if idx <= last {
					t.Errorf("category %q out of order", c.Label)
				}
				last = idx
			}
		})
	}
}

func TestBuildPrompt_TeamsAndContext(t *testing.T) {
	query := model.MatchQuery{
		Sport:             model.SportBasketball,
		HomeTeamName:      "Lakers",
		AwayTeamName:      "Celtics",
		AdditionalContext: "LeBron questionable (ankle)",
	}
	prompt := BuildPrompt(query)

	for _, want := range []string{
		"Professional Basketball Data Analyst",
		"Lakers vs Celtics",
		"LeBron questionable (ankle)",
		model.MarkerStart,
		model.MarkerEnd,
		"Category: [Prediction] | Confidence: [Percentage]%",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "TACTICAL LOGIC RULES") {
		t.Error("basketball prompt should not carry football rules")
	}
}

func TestBuildPrompt_BlankContext(t *testing.T) {
	for _, extra := range []string{"", "   \n\t"} {
		prompt := BuildPrompt(model.MatchQuery{Sport: model.SportTennis, HomeTeamName: "Sinner", AwayTeamName: "Alcaraz", AdditionalContext: extra})
		if !strings.Contains(prompt, "additional context provided: None.") {
			t.Errorf("context %q: expected literal None in prompt", extra)
		}
	}
}

func TestBuildPrompt_FootballFallback(t *testing.T) {
	empty := BuildPrompt(model.MatchQuery{HomeTeamName: "Arsenal", AwayTeamName: "Chelsea"})
	football := BuildPrompt(model.MatchQuery{Sport: model.SportFootball, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea"})

	if empty != football {
		t.Error("empty sport should render the football prompt")
	}
	if !strings.Contains(football, "TACTICAL LOGIC RULES") {
		t.Error("football prompt should include tactical rules")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	query := model.MatchQuery{Sport: model.SportCricket, HomeTeamName: "India", AwayTeamName: "Australia"}
	if BuildPrompt(query) != BuildPrompt(query) {
		t.Error("BuildPrompt should be deterministic")
	}
}
