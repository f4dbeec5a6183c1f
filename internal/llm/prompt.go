package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/betthink/internal/model"
)

// contextFallback is embedded when the caller supplied no additional context
const contextFallback = "None"

// BuildPrompt renders the analyst prompt for a match query. It is pure: the same
// query always yields the same prompt.
func BuildPrompt(query model.MatchQuery) string {
	profile := query.Sport.Profile()

	extra := query.AdditionalContext
	if strings.TrimSpace(extra) == "" {
		extra = contextFallback
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Act as a Professional %s Data Analyst and Betting Algorithm.\n", profile.Sport)
	fmt.Fprintf(&b, "Perform a search for the upcoming match: %s vs %s.\n\n", query.HomeTeamName, query.AwayTeamName)

	b.WriteString("RESEARCH TASKS:\n")
	b.WriteString("1. Find the Last 5 matches form for both teams.\n")
	b.WriteString("2. Find the Last 5 Head-to-Head results.\n")
	b.WriteString("3. Check for recent injuries or suspensions (especially key players).\n")
	fmt.Fprintf(&b, "4. Find %s.\n", profile.Metrics)
	fmt.Fprintf(&b, "5. Consider any additional context provided: %s.\n", extra)

	if len(profile.Rules) > 0 {
		b.WriteString("\nTACTICAL LOGIC RULES:\n")
		for _, rule := range profile.Rules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
	}

	b.WriteString("\nPREDICTION CATEGORIES REQUIRED:\n")
	for i, c := range profile.Categories {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Label, c.Options)
	}

	b.WriteString("\nOUTPUT FORMAT:\n")
	fmt.Fprintf(&b, "1. Begin your response with the line %s.\n", model.MarkerStart)
	b.WriteString("2. Write exactly one line per category, in the order above, in this exact form:\n")
	b.WriteString("   Category: [Prediction] | Confidence: [Percentage]%\n")
	fmt.Fprintf(&b, "3. Close the block with the line %s.\n", model.MarkerEnd)
	fmt.Fprintf(&b, "4. After %s, provide a detailed \"Analyst's Tactical Reasoning\" section.\n", model.MarkerEnd)

	return b.String()
}
