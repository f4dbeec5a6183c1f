package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/betthink/internal/model"
)

func TestInterpret_RoundTrip(t *testing.T) {
	raw := "PREDICTIONS_START\nMatch Result: Home Win | Confidence: 70%\nBTTS: Yes | Confidence: 60%\nPREDICTIONS_END\nArsenal strong at home."
	citations := []model.Citation{{URI: "https://a.com", Title: "A"}}

	result := Interpret(raw, citations)

	want := []model.PredictionRecord{
		{Category: "Match Result", Prediction: "Home Win", Confidence: 70},
		{Category: "BTTS", Prediction: "Yes", Confidence: 60},
	}
	if !reflect.DeepEqual(result.Predictions, want) {
		t.Errorf("Predictions = %+v, want %+v", result.Predictions, want)
	}
	if result.ReasoningText != "Arsenal strong at home." {
		t.Errorf("ReasoningText = %q", result.ReasoningText)
	}
	if result.RawText != raw {
		t.Error("RawText should be preserved verbatim")
	}
	if len(result.Sources) != 1 || result.Sources[0] != (model.SourceRecord{Title: "A", URI: "https://a.com"}) {
		t.Errorf("Sources = %+v", result.Sources)
	}
}

func TestInterpret_MalformedConfidence(t *testing.T) {
	result := Interpret("PREDICTIONS_START\nB: Y | Confidence: abc%\nPREDICTIONS_END", nil)

	want := []model.PredictionRecord{{Category: "B", Prediction: "Y", Confidence: 50}}
	if !reflect.DeepEqual(result.Predictions, want) {
		t.Errorf("Predictions = %+v, want %+v", result.Predictions, want)
	}
	if result.ReasoningText != "" {
		t.Errorf("ReasoningText = %q, want empty", result.ReasoningText)
	}
}

func TestInterpret_MissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no markers", "  Just some prose about the match.\n"},
		{"start only", "PREDICTIONS_START\nA: B | Confidence: 10%\n"},
		{"end before start", "PREDICTIONS_END\nA: B\nPREDICTIONS_START\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Interpret(tt.raw, nil)
			if len(result.Predictions) != 0 {
				t.Errorf("expected no predictions, got %+v", result.Predictions)
			}
			if result.Predictions == nil {
				t.Error("Predictions should be an empty slice, not nil")
			}
			if want := strings.TrimSpace(tt.raw); result.ReasoningText != want {
				t.Errorf("ReasoningText = %q, want %q", result.ReasoningText, want)
			}
		})
	}
}

func TestInterpret_LineParsing(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.PredictionRecord
	}{
		{"colon in prediction", "Correct Score: 2:1 | Confidence: 30%", model.PredictionRecord{Category: "Correct Score", Prediction: "2:1", Confidence: 30}},
		{"no colon", "Home dominance | Confidence: 55%", model.PredictionRecord{Category: "Home dominance", Prediction: "No data", Confidence: 55}},
		{"no confidence", "Winner: Away", model.PredictionRecord{Category: "Winner", Prediction: "Away", Confidence: 50}},
		{"empty category", ": Over 2.5 | Confidence: 80%", model.PredictionRecord{Category: "Analysis", Prediction: "Over 2.5", Confidence: 80}},
		{"empty prediction", "Corners: | Confidence: 40%", model.PredictionRecord{Category: "Corners", Prediction: "No data", Confidence: 40}},
		{"above range", "A: B | Confidence: 150%", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 100}},
		{"negative", "A: B | Confidence: -20%", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 0}},
		{"decimal", "A: B | Confidence: 72.5%", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 72}},
		{"no label", "A: B | 65%", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 65}},
		{"trailing garbage", "A: B | Confidence: 64% (moderate)", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 64}},
		{"huge", "A: B | Confidence: 99999999999999999999%", model.PredictionRecord{Category: "A", Prediction: "B", Confidence: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Interpret("PREDICTIONS_START\n"+tt.line+"\nPREDICTIONS_END", nil)
			if len(result.Predictions) != 1 {
				t.Fatalf("expected 1 prediction, got %+v", result.Predictions)
			}
			if result.Predictions[0] != tt.want {
				t.Errorf("got %+v, want %+v", result.Predictions[0], tt.want)
			}
		})
	}
}

func TestInterpret_BlankLinesAndCRLF(t *testing.T) {
	raw := "intro\r\nPREDICTIONS_START\r\n\r\n  A: B | Confidence: 10%  \r\n\r\nC: D | Confidence: 20%\r\nPREDICTIONS_END\r\n  Reasoning.  \r\n"
	result := Interpret(raw, nil)

	if len(result.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %+v", result.Predictions)
	}
	if result.Predictions[0].Prediction != "B" || result.Predictions[1].Confidence != 20 {
		t.Errorf("unexpected predictions: %+v", result.Predictions)
	}
	if result.ReasoningText != "Reasoning." {
		t.Errorf("ReasoningText = %q", result.ReasoningText)
	}
}

func TestInterpret_FirstMarkersWin(t *testing.T) {
	raw := "PREDICTIONS_START\nA: 1 | Confidence: 10%\nPREDICTIONS_END\nmid\nPREDICTIONS_START\nB: 2\nPREDICTIONS_END\ntail"
	result := Interpret(raw, nil)

	if len(result.Predictions) != 1 || result.Predictions[0].Category != "A" {
		t.Errorf("expected only the first block, got %+v", result.Predictions)
	}
	if result.ReasoningText != "mid\nPREDICTIONS_START\nB: 2\nPREDICTIONS_END\ntail" {
		t.Errorf("ReasoningText = %q", result.ReasoningText)
	}
}

func TestInterpret_ReasoningFollowsFirstEndMarker(t *testing.T) {
	raw := "PREDICTIONS_END preface PREDICTIONS_START\nA: B | Confidence: 40%\nPREDICTIONS_END\nreasoning"
	result := Interpret(raw, nil)

	if len(result.Predictions) != 1 || result.Predictions[0].Category != "A" || result.Predictions[0].Confidence != 40 {
		t.Errorf("expected the block after the first start marker, got %+v", result.Predictions)
	}
	want := "preface PREDICTIONS_START\nA: B | Confidence: 40%\nPREDICTIONS_END\nreasoning"
	if result.ReasoningText != want {
		t.Errorf("ReasoningText = %q, want %q", result.ReasoningText, want)
	}
}

func TestInterpret_Idempotent(t *testing.T) {
	raw := "PREDICTIONS_START\nX: Y | Confidence: 33%\nPREDICTIONS_END\nwhy"
	citations := []model.Citation{{URI: "u1", Title: "A"}, {URI: "u1", Title: "B"}}

	first := Interpret(raw, citations)
	second := Interpret(raw, citations)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Interpret is not deterministic: %+v vs %+v", first, second)
	}
}

func TestDedupSources(t *testing.T) {
	citations := []model.Citation{
		{URI: "u1", Title: "A"},
		{URI: "u2", Title: "C"},
		{URI: "u1", Title: "B"},
		{URI: "", Title: "no uri"},
		{URI: "u3", Title: "  "},
		{URI: " u2 ", Title: " D "},
	}

	got := DedupSources(citations)
	want := []model.SourceRecord{
		{Title: "B", URI: "u1"},
		{Title: "D", URI: "u2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupSources = %+v, want %+v", got, want)
	}
}

func TestDedupSources_Empty(t *testing.T) {
	got := DedupSources(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
