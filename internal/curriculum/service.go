// Package curriculum produces roadmap documents for a target role, using a
// language model when one is reachable and a built-in roadmap otherwise.
package curriculum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/skilltrail/internal/llm"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/roadmap"
)

// Request is one generation ask.
type Request struct {
	Role       string
	Days       int
	WeakTopics []string

	// APIKey is a caller-supplied model key. It takes precedence over the
	// server's own provider.
	APIKey string
}

// Source says where a generated document came from.
type Source string

const (
	SourceModel     Source = "model"
	SourceSimulated Source = "simulated" // no model configured
	SourceFallback  Source = "fallback"  // model failed
)

// Result is a generated document and its provenance.
type Result struct {
	Document *roadmap.Document
	Source   Source
	ModelErr error // set when Source is SourceFallback
}

// KeyedProvider builds a provider for a caller-supplied key.
type KeyedProvider func(apiKey string) (llm.Provider, error)

// Config tunes the service.
type Config struct {
	MaxTokens   int
	Temperature float64
	ForKey      KeyedProvider
}

// DefaultConfig mirrors the settings the roadmap prompt was tuned with.
func DefaultConfig() Config {
	return Config{MaxTokens: 8000, Temperature: 0.7}
}

// Service generates roadmaps.
type Service struct {
	provider llm.Provider // nil when the server has no key
	cfg      Config
	log      *logger.Logger
}

func New(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	return &Service{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

// Generate never fails because of the model: any model failure yields the
// simulated roadmap with SourceFallback. Errors are returned only for an
// invalid request or a cancelled context.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		return nil, errors.New("curriculum: role is required")
	}
	if req.Days <= 0 {
		return nil, fmt.Errorf("curriculum: days must be positive, got %d", req.Days)
	}

	p, err := s.pick(req.APIKey)
	if err != nil {
		s.log.Warn("caller key rejected, using server provider", "error", err)
		p = s.provider
	}
	if p == nil {
		s.log.Info("no model available, serving simulated roadmap", "role", req.Role)
		return &Result{Document: Simulated(req.Role, req.Days, req.WeakTopics), Source: SourceSimulated}, nil
	}

	doc, err := s.fromModel(ctx, p, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Warn("roadmap generation failed, serving simulated roadmap",
			"role", req.Role, "provider", p.Name(), "error", err)
		return &Result{
			Document: Simulated(req.Role, req.Days, req.WeakTopics),
			Source:   SourceFallback,
			ModelErr: err,
		}, nil
	}
	return &Result{Document: doc, Source: SourceModel}, nil
}

func (s *Service) pick(apiKey string) (llm.Provider, error) {
	if apiKey == "" || s.cfg.ForKey == nil {
		return s.provider, nil
	}
	return s.cfg.ForKey(apiKey)
}

func (s *Service) fromModel(ctx context.Context, p llm.Provider, req Request) (*roadmap.Document, error) {
	resp, err := p.Generate(llm.WithPurpose(ctx, "roadmap"), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(buildUserMessage(req)),
		Schema:      RoadmapSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var doc roadmap.Document
	if err := json.Unmarshal(resp.Content, &doc); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	doc.ID = ""
	doc.IsBookmarked = false
	doc.IsSimulated = false
	doc.DurationDays = req.Days

	if n := roadmap.EnsureSkillIDs(&doc); n > 0 {
		s.log.Debug("rewrote skill ids", "count", n)
	}
	for i := range doc.Levels {
		for j := range doc.Levels[i].Tracks {
			skills := doc.Levels[i].Tracks[j].Skills
			for k := range skills {
				if skills[k].Status == "" {
					skills[k].Status = notStarted
				}
			}
		}
	}
	if err := roadmap.Validate(&doc); err != nil {
		return nil, fmt.Errorf("generated roadmap: %w", err)
	}
	return &doc, nil
}

// GroqForKey returns a KeyedProvider that builds a decorated Groq provider
// for each caller key, using the model and middleware settings of cfg.
func GroqForKey(cfg llm.Config, events llm.EventRecorder, log *logger.Logger) KeyedProvider {
	return func(apiKey string) (llm.Provider, error) {
		kc := cfg.Groq
		kc.APIKey = apiKey
		base, err := llm.NewGroqProvider(kc)
		if err != nil {
			return nil, err
		}
		return llm.Decorate(base, cfg, events, log), nil
	}
}
