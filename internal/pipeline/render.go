package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/betthink/internal/model"
)

const footer = "Generated by BetThink. Predictions are probabilistic estimates, not betting advice."

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderReport writes the report to whichever of the paths are set
func (r *Renderer) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	result := report.Result

	fmt.Fprintf(&b, "# %s (%s)\n\n", report.Query.Title(), report.Query.Sport)

	meta := fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if report.Provider != "" {
		meta += " by " + report.Provider
		if report.Model != "" {
			meta += " (" + report.Model + ")"
		}
	}
	if report.Cached {
		meta += ", cached"
	}
	fmt.Fprintf(&b, "_%s. Report %s._\n\n", meta, report.ID)

	if ctx := strings.TrimSpace(report.Query.AdditionalContext); ctx != "" {
		fmt.Fprintf(&b, "**Context:** %s\n\n", ctx)
	}

	b.WriteString("## Predictions\n\n")
	if len(result.Predictions) == 0 {
		b.WriteString("_No structured predictions were returned._\n\n")
	} else {
		b.WriteString("| Category | Prediction | Confidence |\n")
		b.WriteString("|---|---|---:|\n")
		for _, p := range result.Predictions {
			fmt.Fprintf(&b, "| %s | %s | %d%% |\n", escapeCell(p.Category), escapeCell(p.Prediction), p.Confidence)
		}
		b.WriteString("\n")
	}

	if result.ReasoningText != "" {
		b.WriteString("## Analyst's Tactical Reasoning\n\n")
		b.WriteString(result.ReasoningText)
		b.WriteString("\n\n")
	}

	if len(result.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for i, s := range result.Sources {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, s.Title, s.URI)
		}
		b.WriteString("\n")
	}

	if len(report.SourceChecks) > 0 {
		fmt.Fprintf(&b, "## Source Verification (%d/%d reachable)\n\n", report.VerifiedCount(), len(report.SourceChecks))
		b.WriteString("| Source | Status | Page title |\n")
		b.WriteString("|---|---|---|\n")
		for _, c := range report.SourceChecks {
			target := c.URI
			if c.FinalURL != "" {
				target = c.FinalURL
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(target), checkStatus(c), escapeCell(c.PageTitle))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_%s_\n", footer)
	}

	return b.String()
}

// WriteSummary prints a compact terminal view of the report
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) error {
	result := report.Result

	fmt.Fprintf(w, "\n%s (%s)\n", report.Query.Title(), report.Query.Sport)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(report.Query.Title())+len(report.Query.Sport)+3))

	if len(result.Predictions) == 0 {
		fmt.Fprintln(w, "No structured predictions were returned.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tPREDICTION\tCONFIDENCE")
		for _, p := range result.Predictions {
			fmt.Fprintf(tw, "%s\t%s\t%3d%% %s\n", p.Category, p.Prediction, p.Confidence, confidenceBar(p.Confidence))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if result.ReasoningText != "" {
		fmt.Fprintf(w, "\nReasoning:\n%s\n", result.ReasoningText)
	}

	if len(result.Sources) > 0 {
		fmt.Fprintf(w, "\nSources (%d):\n", len(result.Sources))
		for _, s := range result.Sources {
			fmt.Fprintf(w, "  - %s <%s>\n", s.Title, s.URI)
		}
	}

	if len(report.SourceChecks) > 0 {
		fmt.Fprintf(w, "\nVerified sources: %d/%d reachable\n", report.VerifiedCount(), len(report.SourceChecks))
	}

	if r.includeFooter {
		fmt.Fprintf(w, "\n%s\n", footer)
	}
	return nil
}

// confidenceBar draws one block per 10 points
func confidenceBar(confidence int) string {
	n := confidence / 10
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}

func checkStatus(c model.SourceCheck) string {
	switch {
	case !c.RobotsAllowed:
		return "blocked by robots.txt"
	case c.Accessible:
		return fmt.Sprintf("ok (%d)", c.StatusCode)
	case c.StatusCode != 0:
		return fmt.Sprintf("unreachable (%d)", c.StatusCode)
	}
	return "unreachable"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
