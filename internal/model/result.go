package model

// PredictionRecord is one parsed "Category: Prediction | Confidence: NN%" line
type PredictionRecord struct {
	Category   string `json:"category"`
	Prediction string `json:"prediction"`
	Confidence int    `json:"confidence"` // 0-100
}

// Literal markers delimiting the prediction block in model output
const (
	MarkerStart = "PREDICTIONS_START"
	MarkerEnd   = "PREDICTIONS_END"
)

// Defaults applied by the response interpreter
const (
	DefaultCategory   = "Analysis"
	DefaultPrediction = "No data"
	DefaultConfidence = 50
)

// Citation is a raw grounding chunk as returned by a provider. Either field may be empty.
type Citation struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// SourceRecord is a deduplicated grounding source
type SourceRecord struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is the structured outcome of one completed analysis
type AnalysisResult struct {
	RawText       string             `json:"rawText"`
	Predictions   []PredictionRecord `json:"predictions"`
	ReasoningText string             `json:"reasoningText"`
	Sources       []SourceRecord     `json:"sources"`
}
