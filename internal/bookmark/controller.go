package bookmark

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/optimistic"
	"github.com/abhisek/skilltrail/internal/roadmap"
)

// ErrNoDocument is returned when toggling a document that has no id yet.
var ErrNoDocument = errors.New("bookmark: document has no id")

// Persister flips the stored bookmark flag. The server decides the new
// value and reports it back.
type Persister interface {
	ToggleBookmark(ctx context.Context, roadmapID string) (bool, error)
}

// PersistError reports a failed toggle after the local flag was restored.
type PersistError struct {
	RoadmapID string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("toggle bookmark %s: %v", e.RoadmapID, e.Err)
}

func (e *PersistError) Unwrap() error   { return e.Err }
func (e *PersistError) Retryable() bool { return true }

// Controller owns the optimistic bookmark flag of one document.
//
// The server applies toggles as stateless flips. When a toggle fails after
// a later toggle was already applied locally, restoring the old snapshot
// would undo the later toggle too, so a superseded failure instead inverts
// the current value: the server saw one flip fewer than the client did.
type Controller struct {
	mu        sync.Mutex
	doc       *roadmap.Document
	value     *optimistic.Value[bool]
	pending   int
	persister Persister
	log       *logger.Logger
}

// NewController wraps doc. The document's IsBookmarked field is kept in step
// with the controller.
func NewController(doc *roadmap.Document, p Persister, log *logger.Logger) *Controller {
	return &Controller{
		doc:       doc,
		value:     optimistic.New(doc.IsBookmarked),
		persister: p,
		log:       logger.OrNop(log),
	}
}

// Bookmarked returns the current optimistic value.
func (c *Controller) Bookmarked() bool {
	return c.value.Get()
}

// Begin flips the flag locally and returns the mutation to resolve later.
func (c *Controller) Begin() (optimistic.Mutation[bool], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc.ID == "" {
		return optimistic.Mutation[bool]{}, ErrNoDocument
	}
	m := c.value.Apply(!c.value.Get())
	c.pending++
	c.doc.IsBookmarked = m.Next
	return m, nil
}

// Persist issues the toggle request for the document.
func (c *Controller) Persist(ctx context.Context) (bool, error) {
	return c.persister.ToggleBookmark(ctx, c.doc.ID)
}

// Resolve settles a mutation once its request has returned. serverValue is
// only consulted on success. Each mutation from Begin must be resolved once.
func (c *Controller) Resolve(m optimistic.Mutation[bool], serverValue bool, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.doc.IsBookmarked = c.value.Get() }()
	if c.pending > 0 {
		c.pending--
	}

	if err != nil {
		if !c.value.Rollback(m) {
			c.value.Set(!c.value.Get())
		}
		c.log.Warn("bookmark toggle failed", "roadmap_id", c.doc.ID, "error", err)
		return &PersistError{RoadmapID: c.doc.ID, Err: err}
	}

	// The reported value is only authoritative once no other toggle is
	// outstanding.
	if c.pending == 0 && c.value.Latest(m) && serverValue != m.Next {
		c.log.Debug("bookmark reconciled with server", "roadmap_id", c.doc.ID, "value", serverValue)
		c.value.Set(serverValue)
	}
	return nil
}

// Toggle runs Begin, Persist and Resolve in sequence.
func (c *Controller) Toggle(ctx context.Context) error {
	m, err := c.Begin()
	if err != nil {
		return err
	}
	v, err := c.Persist(ctx)
	return c.Resolve(m, v, err)
}
