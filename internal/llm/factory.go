package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/betthink/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case ProviderGemini, "google", "":
		return NewGeminiProvider(config)

	case ProviderOpenAI:
		return NewOpenAIProvider(config)

	case ProviderAnthropic, "claude":
		return NewAnthropicProvider(config)

	case ProviderOllama:
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   llmCfg.Provider,
		Model:      llmCfg.Model,
		APIKey:     llmCfg.APIKey,
		BaseURL:    llmCfg.BaseURL,
		Timeout:    llmCfg.Timeout,
		MaxTokens:  llmCfg.MaxTokens,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}
}

// APIKeyFromEnv returns the conventional credential for a provider, if set
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderGemini, "google", "":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic, "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

// BaseURLFromEnv returns a provider endpoint override from the environment
func BaseURLFromEnv(provider string) string {
	if strings.ToLower(provider) == ProviderOllama {
		return os.Getenv("OLLAMA_BASE_URL")
	}
	return ""
}

// resolveMaxTokens picks the request value, then the configured value, then the fallback
func resolveMaxTokens(requested, configured, fallback int) int {
	if requested > 0 {
		return requested
	}
	if configured > 0 {
		return configured
	}
	return fallback
}
