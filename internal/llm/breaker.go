package llm

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"github.com/abhisek/skilltrail/internal/logger"
)

// BreakerProvider stops calling a failing provider for a cool-down period
// so that generation requests fail fast (and fall back) instead of each
// waiting out the full retry schedule.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps p in a circuit breaker. Only transient failures count
// against the breaker; schema violations and cancellations do not.
func WithBreaker(p Provider, cfg BreakerConfig, log *logger.Logger) Provider {
	log = logger.OrNop(log)
	minReq := cfg.MinRequests
	if minReq == 0 {
		minReq = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name() + "/" + p.ModelID(),
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < minReq {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			var un *ErrProviderUnavailable
			var rl *ErrRateLimit
			return !errors.As(err, &un) && !errors.As(err, &rl)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("llm circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerProvider{inner: p, cb: cb}
}

func (b *BreakerProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

// State exposes the breaker state for health reporting.
func (b *BreakerProvider) State() string { return b.cb.State().String() }

func (b *BreakerProvider) Name() string    { return b.inner.Name() }
func (b *BreakerProvider) ModelID() string { return b.inner.ModelID() }
