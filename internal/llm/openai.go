package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models.
// Chat completions carry no grounding metadata, so citations are recovered
// from markdown links in the reply.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Listing models is the lightest authenticated call
	_, err := p.client.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("provider", ProviderOpenAI).Msg("availability check failed")
		return false
	}
	return true
}

// Complete generates a completion using OpenAI's Chat Completions API
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		// Search-preview models browse the web on every request
		modelName = openai.GPT4oMini
		if req.WebSearch {
			modelName = "gpt-4o-search-preview"
		}
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a sports data analyst. Cite every web source you used as a markdown link [title](url).",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   resolveMaxTokens(req.MaxTokens, p.config.MaxTokens, 0),
		Temperature: float32(req.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", classifyOpenAIError(err))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content

	return &CompletionResponse{
		Text:       text,
		Citations:  extractMarkdownCitations(text),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// classifyOpenAIError maps API status codes onto the sentinel errors
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	switch {
	case apiErr.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrNoAPIKey, apiErr.Message)
	case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimit, apiErr.Message)
	case apiErr.HTTPStatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrInvalidModel, apiErr.Message)
	case apiErr.HTTPStatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrProviderDown, apiErr.Message)
	}
	return err
}

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s\)]+)\)`)

// extractMarkdownCitations extracts [title](url) links from text in order of appearance
func extractMarkdownCitations(text string) []model.Citation {
	matches := markdownLinkPattern.FindAllStringSubmatch(text, -1)

	var citations []model.Citation
	for _, m := range matches {
		citations = append(citations, model.Citation{
			Title: strings.TrimSpace(m[1]),
			URI:   strings.TrimRight(m[2], ".,;:!?"),
		})
	}
	return citations
}
