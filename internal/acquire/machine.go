package acquire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/stats"
)

// ErrInvalidTransition is returned for a transition the machine does not
// allow from its current state.
var ErrInvalidTransition = errors.New("acquire: invalid transition")

// State is the stage of a roadmap view.
type State int

const (
	StateLoading State = iota
	StateConfigurationForm
	StateDocumentView
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateConfigurationForm:
		return "configuration-form"
	case StateDocumentView:
		return "document-view"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fetcher loads saved roadmaps.
type Fetcher interface {
	FetchLatest(ctx context.Context) (*roadmap.Document, error)
	FetchByID(ctx context.Context, id string) (*roadmap.Document, error)
}

// Result is the outcome of resolving an intent.
type Result struct {
	State    State
	Document *roadmap.Document

	// Stats is zero when StatsErr is set.
	Stats    stats.Stats
	StatsErr error

	// FetchErr records why a fetch fell back to the form. It is never
	// shown to the user.
	FetchErr error
}

// Machine is the load, configure, view state machine of one navigation.
type Machine struct {
	mu      sync.Mutex
	state   State
	fetcher Fetcher
	stats   stats.Fetcher
	log     *logger.Logger
}

func NewMachine(f Fetcher, sf stats.Fetcher, log *logger.Logger) *Machine {
	return &Machine{state: StateLoading, fetcher: f, stats: sf, log: logger.OrNop(log)}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run evaluates intent once, from StateLoading. The stats read runs
// alongside the document fetch and never influences the resulting state.
func (m *Machine) Run(ctx context.Context, intent Intent) (Result, error) {
	if s := m.State(); s != StateLoading {
		return Result{State: s}, fmt.Errorf("%w: run from %s", ErrInvalidTransition, s)
	}

	var (
		res Result
		g   errgroup.Group
	)

	g.Go(func() error {
		res.Document, res.FetchErr = m.fetch(ctx, intent)
		return nil
	})
	if m.stats != nil {
		g.Go(func() error {
			res.Stats, res.StatsErr = m.stats.FetchStats(ctx)
			if res.StatsErr != nil {
				m.log.Warn("stats fetch failed during load", "error", res.StatsErr)
				res.Stats = stats.Stats{}
			}
			return nil
		})
	}
	_ = g.Wait()

	if res.FetchErr != nil {
		m.log.Debug("roadmap fetch fell back to form", "intent", intent.String(), "error", res.FetchErr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if res.Document != nil {
		m.state = StateDocumentView
	} else {
		m.state = StateConfigurationForm
	}
	res.State = m.state
	return res, nil
}

func (m *Machine) fetch(ctx context.Context, intent Intent) (*roadmap.Document, error) {
	var (
		doc *roadmap.Document
		err error
	)
	switch intent.Kind {
	case IntentForceNew:
		return nil, nil
	case IntentByID:
		doc, err = m.fetcher.FetchByID(ctx, intent.ID)
	default:
		doc, err = m.fetcher.FetchLatest(ctx)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Generated moves from the configuration form to the document view.
func (m *Machine) Generated() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConfigurationForm {
		return fmt.Errorf("%w: generated from %s", ErrInvalidTransition, m.state)
	}
	m.state = StateDocumentView
	return nil
}
