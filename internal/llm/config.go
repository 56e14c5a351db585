package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config selects and configures the generation backend.
type Config struct {
	Provider string `yaml:"provider"`

	Groq      KeyedConfig `yaml:"groq"`
	OpenAI    KeyedConfig `yaml:"openai"`
	Anthropic KeyedConfig `yaml:"anthropic"`
	Gemini    KeyedConfig `yaml:"gemini"`

	Retry   RetryConfig   `yaml:"retry"`
	Breaker BreakerConfig `yaml:"breaker"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
	// MaxTokens caps roadmap output.
	MaxTokens int `yaml:"max_tokens"`
}

// KeyedConfig is the per-provider credential and model choice.
type KeyedConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// BreakerConfig trips the provider after repeated failures.
type BreakerConfig struct {
	MinRequests      uint32        `yaml:"min_requests"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	Interval         time.Duration `yaml:"interval"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
}

// DefaultConfig targets Groq's hosted Llama, the cheapest option that
// reliably returns the roadmap schema.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderGroq,
		Groq:      KeyedConfig{Model: "llama-3.3-70b-versatile", BaseURL: groqBaseURL},
		OpenAI:    KeyedConfig{Model: "gpt-4o-mini"},
		Anthropic: KeyedConfig{Model: "claude-haiku"},
		Gemini:    KeyedConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Breaker: BreakerConfig{
			MinRequests:      5,
			FailureThreshold: 0.6,
			Interval:         time.Minute,
			OpenTimeout:      30 * time.Second,
		},
		Timeout:   90 * time.Second,
		MaxTokens: 8192,
	}
}

// Keyed returns the section for the selected provider.
func (c Config) Keyed() KeyedConfig {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderGemini:
		return c.Gemini
	default:
		return c.Groq
	}
}

// ApplyEnv overlays SKILLTRAIL_LLM_PROVIDER and SKILLTRAIL_<PROVIDER>_{API_KEY,MODEL}.
// When no provider was chosen explicitly and the selected provider has no
// key, the standard vendor variables are probed.
func (c *Config) ApplyEnv() {
	explicit := false
	if p := os.Getenv("SKILLTRAIL_LLM_PROVIDER"); p != "" {
		c.Provider = p
		explicit = true
	}
	for prefix, kc := range map[string]*KeyedConfig{
		"GROQ":      &c.Groq,
		"OPENAI":    &c.OpenAI,
		"ANTHROPIC": &c.Anthropic,
		"GEMINI":    &c.Gemini,
	} {
		if v := os.Getenv("SKILLTRAIL_" + prefix + "_API_KEY"); v != "" {
			kc.APIKey = v
		}
		if v := os.Getenv("SKILLTRAIL_" + prefix + "_MODEL"); v != "" {
			kc.Model = v
		}
	}
	if !explicit && c.Keyed().APIKey == "" && c.Provider != ProviderMock {
		c.discover()
	}
}

// discover picks the first provider with a key in the vendor's own
// variable: Groq, Gemini, OpenAI, Anthropic.
func (c *Config) discover() {
	probes := []struct {
		env      string
		provider string
		dst      *KeyedConfig
	}{
		{"GROQ_API_KEY", ProviderGroq, &c.Groq},
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			p.dst.APIKey = k
			return
		}
	}
}

// HasKey reports whether the selected provider can be constructed.
func (c Config) HasKey() bool {
	return c.Provider == ProviderMock || c.Keyed().APIKey != ""
}

// Validate checks the provider name. A missing key is not an error: the
// curriculum service falls back to simulated roadmaps without one.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm retry.max_attempts must be at least 1")
	}
	return nil
}
