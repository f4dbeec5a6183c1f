package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	HTTP         HTTPConfig         `mapstructure:"http" yaml:"http"`
	Cache        CacheConfig        `mapstructure:"cache" yaml:"cache"`
	Concurrency  ConcurrencyConfig  `mapstructure:"concurrency" yaml:"concurrency"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Sources      SourcesConfig      `mapstructure:"sources" yaml:"sources"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Output       OutputConfig       `mapstructure:"output" yaml:"output"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
}

// LLMConfig configures the completion provider
type LLMConfig struct {
	Provider       string  `mapstructure:"provider" yaml:"provider"` // gemini, openai, anthropic, ollama
	Model          string  `mapstructure:"model" yaml:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout        int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	ThinkingBudget int     `mapstructure:"thinking_budget" yaml:"thinking_budget"`
	WebSearch      bool    `mapstructure:"web_search" yaml:"web_search"`
}

// HTTPConfig configures outbound HTTP (provider calls and source checks)
type HTTPConfig struct {
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	HTTPProxy    string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy      string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the optional response cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Dir     string        `mapstructure:"dir" yaml:"dir,omitempty"` // Empty keeps the cache in memory only
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers       int `mapstructure:"workers" yaml:"workers"`
	SourceWorkers int `mapstructure:"source_workers" yaml:"source_workers"`
}

// RateLimitingConfig configures outbound and inbound request rates
type RateLimitingConfig struct {
	RequestsPerSecond       float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	BurstSize               int     `mapstructure:"burst_size" yaml:"burst_size"`
	ClientRequestsPerMinute int     `mapstructure:"client_requests_per_minute" yaml:"client_requests_per_minute"`
	MaxTrackedClients       int     `mapstructure:"max_tracked_clients" yaml:"max_tracked_clients"` // Clients past this share one bucket
}

// SourcesConfig configures grounding source verification
type SourcesConfig struct {
	Verify        bool          `mapstructure:"verify" yaml:"verify"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	TrustProxy     bool          `mapstructure:"trust_proxy" yaml:"trust_proxy"` // Take the client IP from X-Forwarded-For / X-Real-IP
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `mapstructure:"verbose" yaml:"verbose"`
	IncludeFooter bool `mapstructure:"include_footer" yaml:"include_footer"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-3-pro-preview",
			Timeout:        120,
			MaxTokens:      0, // Provider default
			Temperature:    0.2,
			ThinkingBudget: 24000,
			WebSearch:      true,
		},
		HTTP: HTTPConfig{
			UserAgent:    "BetThink/0.1 (+https://github.com/ppiankov/betthink)",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 512_000,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       2,
			SourceWorkers: 8,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond:       1,
			BurstSize:               2,
			ClientRequestsPerMinute: 10,
			MaxTrackedClients:       10000,
		},
		Sources: SourcesConfig{
			Verify:        false,
			Timeout:       10 * time.Second,
			RespectRobots: true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   180 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			TrustProxy:     false,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
