package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/roadmap"
)

// Generator is the curriculum generation service.
type Generator interface {
	Generate(ctx context.Context, req api.GenerateRequest) (*roadmap.Document, error)
}

// GenerateError reports a failed generation. The form keeps its values and
// the user may resubmit.
type GenerateError struct {
	Err error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generate roadmap: %v", e.Err)
}

func (e *GenerateError) Unwrap() error   { return e.Err }
func (e *GenerateError) Retryable() bool { return true }

var errEmptyDocument = errors.New("service returned no document")

// Builder turns a submitted form into a new roadmap.
type Builder struct {
	gen Generator
	log *logger.Logger
}

func NewBuilder(g Generator, log *logger.Logger) *Builder {
	return &Builder{gen: g, log: logger.OrNop(log)}
}

// Submit validates f and, only if it is valid, calls the generator.
// A *ValidationError means nothing was sent.
func (b *Builder) Submit(ctx context.Context, f Form) (*roadmap.Document, error) {
	req, err := Build(f)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, req)
}

// Send dispatches an already validated request.
func (b *Builder) Send(ctx context.Context, req api.GenerateRequest) (*roadmap.Document, error) {
	b.log.Info("generating roadmap", "role", req.TargetRole, "days", req.DaysRemaining, "weak_patterns", len(req.WeakPatterns))
	doc, err := b.gen.Generate(ctx, req)
	if err == nil && doc == nil {
		err = errEmptyDocument
	}
	if err != nil {
		b.log.Warn("roadmap generation failed", "role", req.TargetRole, "error", err)
		return nil, &GenerateError{Err: err}
	}
	return doc, nil
}
