package llm

import (
	"context"
	"errors"

	"github.com/ppiankov/betthink/internal/model"
)

// Provider names
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Errors returned by providers. They are diagnostic only; callers above the
// pipeline never see them verbatim.
var (
	ErrNoAPIKey      = errors.New("llm: API key not configured")
	ErrRateLimit     = errors.New("llm: rate limit exceeded")
	ErrProviderDown  = errors.New("llm: provider unavailable")
	ErrInvalidModel  = errors.New("llm: invalid model")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Provider is the completion capability boundary: prompt in, text and citations out
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the completion text with any grounding citations
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single completion call
type CompletionRequest struct {
	// Prompt is the full user prompt
	Prompt string

	// Model overrides the provider's configured model
	Model string

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int

	// Temperature is kept low to favor deterministic output
	Temperature float64

	// WebSearch enables live search grounding where the backend supports it
	WebSearch bool

	// ThinkingBudget is the reasoning token allowance (0 = disabled)
	ThinkingBudget int
}

// CompletionResponse contains the provider's output
type CompletionResponse struct {
	// Text is the completion text
	Text string

	// Citations are the grounding sources returned alongside the text, in provider order
	Citations []model.Citation

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, test servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Model:    DefaultGeminiModel,
		Timeout:  120,
	}
}
