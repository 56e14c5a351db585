package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/skilltrail/internal/logger"
)

// NewBase constructs the undecorated provider selected by cfg.
func NewBase(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderGroq:
		p, err = NewGroqProvider(cfg.Groq)
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}

// Decorate stacks the middleware: retry, then breaker, then logging
// around base. Every attempt is logged; the breaker sees every attempt.
func Decorate(base Provider, cfg Config, events EventRecorder, log *logger.Logger) Provider {
	logged := WithLogging(base, events, log)
	guarded := WithBreaker(logged, cfg.Breaker, log)
	return WithRetry(guarded, cfg.Retry)
}

// NewProvider is NewBase followed by Decorate.
func NewProvider(ctx context.Context, cfg Config, events EventRecorder, log *logger.Logger) (Provider, error) {
	base, err := NewBase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Decorate(base, cfg, events, log), nil
}
