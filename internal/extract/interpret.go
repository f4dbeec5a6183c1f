package extract

import (
	"strings"

	"github.com/ppiankov/betthink/internal/model"
)

// maxConfidenceDigits bounds the digits read from a confidence value so huge numbers clamp instead of overflowing
const maxConfidenceDigits = 6

// Interpret turns raw completion text and its citations into an AnalysisResult.
// It never fails: malformed output degrades to defaults or to an empty prediction list.
func Interpret(rawText string, citations []model.Citation) model.AnalysisResult {
	result := model.AnalysisResult{
		RawText:     rawText,
		Predictions: []model.PredictionRecord{},
		Sources:     DedupSources(citations),
	}

	block, reasoning, ok := splitBlock(rawText)
	if !ok {
		result.ReasoningText = strings.TrimSpace(rawText)
		return result
	}

	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line == "" {
			continue
		}
		result.Predictions = append(result.Predictions, parseLine(line))
	}
	result.ReasoningText = strings.TrimSpace(reasoning)

	return result
}

// splitBlock locates the first start marker and the first end marker after it.
// rest always follows the first end marker in text, even one that precedes the block.
func splitBlock(text string) (block, rest string, ok bool) {
	start := strings.Index(text, model.MarkerStart)
	if start < 0 {
		return "", "", false
	}
	body := text[start+len(model.MarkerStart):]

	end := strings.Index(body, model.MarkerEnd)
	if end < 0 {
		return "", "", false
	}

	firstEnd := strings.Index(text, model.MarkerEnd)
	return body[:end], text[firstEnd+len(model.MarkerEnd):], true
}

// parseLine reads one "Category: Prediction | Confidence: NN%" line
func parseLine(line string) model.PredictionRecord {
	segments := strings.Split(line, "|")

	category, prediction, found := strings.Cut(segments[0], ":")
	if !found {
		prediction = ""
	}
	category = strings.TrimSpace(category)
	prediction = strings.TrimSpace(prediction)

	if category == "" {
		category = model.DefaultCategory
	}
	if prediction == "" {
		prediction = model.DefaultPrediction
	}

	confidence := model.DefaultConfidence
	if len(segments) > 1 {
		confidence = parseConfidence(segments[1])
	}

	return model.PredictionRecord{
		Category:   category,
		Prediction: prediction,
		Confidence: confidence,
	}
}

// parseConfidence extracts the percentage from "Confidence: NN%". Anything
// unparseable yields the default; the result is clamped to 0..100.
func parseConfidence(segment string) int {
	value := segment
	if _, after, found := strings.Cut(segment, ":"); found {
		value = after
	}
	value = strings.TrimRight(strings.TrimSpace(value), "% \t")

	n, ok := leadingInt(value)
	if !ok {
		return model.DefaultConfidence
	}

	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return n
}

// leadingInt parses an optional sign followed by digits at the start of s and
// ignores whatever follows, so "85.5" reads as 85 and "abc" fails.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n, digits := 0, 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if digits < maxConfidenceDigits {
			n = n*10 + int(s[i]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	return sign * n, true
}
