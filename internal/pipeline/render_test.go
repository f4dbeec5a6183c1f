package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/betthink/internal/model"
)

func sampleReport() *model.Report {
	report := model.NewReport(
		model.MatchQuery{Sport: model.SportFootball, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", AdditionalContext: "Saka doubtful"},
		model.AnalysisResult{
			RawText: sampleText,
			Predictions: []model.PredictionRecord{
				{Category: "Match Result", Prediction: "Home Win", Confidence: 70},
				{Category: "Goals", Prediction: "Over | Under", Confidence: 55},
			},
			ReasoningText: "Arsenal strong at home.",
			Sources:       []model.SourceRecord{{Title: "BBC", URI: "https://bbc.co.uk/a"}},
		},
	)
	report.Provider = "gemini"
	report.Model = "gemini-test"
	return report
}

func TestRenderer_Markdown(t *testing.T) {
	md := NewRenderer(true).Markdown(sampleReport())

	for _, want := range []string{
		"# Arsenal vs Chelsea (Football)",
		"by gemini (gemini-test)",
		"**Context:** Saka doubtful",
		"| Match Result | Home Win | 70% |",
		"| Goals | Over \\| Under | 55% |",
		"## Analyst's Tactical Reasoning\n\nArsenal strong at home.",
		"1. [BBC](https://bbc.co.uk/a)",
		footer,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "Source Verification") {
		t.Error("verification section should be omitted without checks")
	}
}

func TestRenderer_MarkdownNoPredictions(t *testing.T) {
	report := sampleReport()
	report.Result.Predictions = nil
	report.SourceChecks = []model.SourceCheck{
		{URI: "https://a", FinalURL: "https://b", StatusCode: 200, Accessible: true, RobotsAllowed: true, PageTitle: "B"},
		{URI: "https://c", RobotsAllowed: false},
	}

	md := NewRenderer(false).Markdown(report)

	if !strings.Contains(md, "_No structured predictions were returned._") {
		t.Error("expected empty predictions notice")
	}
	if !strings.Contains(md, "## Source Verification (1/2 reachable)") {
		t.Error("expected verification section")
	}
	if !strings.Contains(md, "| https://b | ok (200) | B |") || !strings.Contains(md, "blocked by robots.txt") {
		t.Errorf("unexpected verification rows:\n%s", md)
	}
	if strings.Contains(md, footer) {
		t.Error("footer should be omitted")
	}
}

func TestRenderer_RenderReportFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "out", "report.md")
	report := sampleReport()

	if err := NewRenderer(true).RenderReport(report, jsonPath, mdPath, false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != report.ID || len(decoded.Result.Predictions) != 2 {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}
	if !strings.Contains(string(data), `"homeTeamName": "Arsenal"`) {
		t.Error("JSON should use camelCase field names")
	}

	if _, err := os.Stat(mdPath); err != nil {
		t.Errorf("markdown not written: %v", err)
	}
}

func TestRenderer_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).WriteSummary(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Arsenal vs Chelsea (Football)", "CATEGORY", "Home Win", " 70% ███████░░░", "Sources (1):", "BBC <https://bbc.co.uk/a>"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestConfidenceBar(t *testing.T) {
	if got := confidenceBar(0); got != strings.Repeat("░", 10) {
		t.Errorf("confidenceBar(0) = %q", got)
	}
	if got := confidenceBar(100); got != strings.Repeat("█", 10) {
		t.Errorf("confidenceBar(100) = %q", got)
	}
}
