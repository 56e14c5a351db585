// Package dashboard ties the roadmap engine together for one roadmap view:
// acquisition, the completion draft, the bookmark flag, generation and the
// stats counters.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/bookmark"
	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/optimistic"
	"github.com/abhisek/skilltrail/internal/progress"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/stats"
)

// ErrStale is returned when a result arrives for a session that has been
// closed. The result is discarded.
var ErrStale = errors.New("dashboard: session no longer active")

// ErrBusy is returned by Submit while a generation is outstanding.
var ErrBusy = errors.New("dashboard: generation already in flight")

// Backend is every remote operation a roadmap view needs.
type Backend interface {
	acquire.Fetcher
	stats.Fetcher
	generate.Generator
	progress.Saver
	bookmark.Persister
}

// Session is one roadmap view. It is discarded on navigation; a new
// navigation creates a new Session.
type Session struct {
	mu     sync.Mutex
	closed bool

	backend   Backend
	machine   *acquire.Machine
	refresher *stats.Refresher
	builder   *generate.Builder

	doc        *roadmap.Document
	store      *progress.Store
	bm         *bookmark.Controller
	form       generate.Form
	generating bool
	notice     *Notice

	log *logger.Logger
}

func New(b Backend, log *logger.Logger) *Session {
	log = logger.OrNop(log)
	refresher := stats.NewRefresher(b, log)
	return &Session{
		backend:   b,
		machine:   acquire.NewMachine(b, refresher, log),
		refresher: refresher,
		builder:   generate.NewBuilder(b, log),
		form:      generate.DefaultForm(),
		log:       log,
	}
}

// Load resolves intent. It may be called once.
func (s *Session) Load(ctx context.Context, intent acquire.Intent) (acquire.Result, error) {
	res, err := s.machine.Run(ctx, intent)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Debug("discarding stale load result", "intent", intent.String())
		return res, ErrStale
	}
	seed := res.Stats.SolvedProblems
	if res.StatsErr != nil {
		seed = nil
	}
	if res.Document != nil {
		s.adopt(res.Document, seed)
	} else {
		s.store = progress.NewStore(seed, s.backend, s.refresher, s.log)
	}
	return res, nil
}

// adopt makes doc the current document with a fresh progress store.
func (s *Session) adopt(doc *roadmap.Document, seed []string) {
	s.doc = doc
	s.store = progress.NewStore(seed, s.backend, s.refresher, s.log)
	s.bm = bookmark.NewController(doc, s.backend, s.log)
}

// Close marks the session inactive. Results that arrive later are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *Session) State() acquire.State { return s.machine.State() }

func (s *Session) Document() *roadmap.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Progress returns the current completion store, or nil while loading.
func (s *Session) Progress() *progress.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

func (s *Session) Stats() *stats.Refresher { return s.refresher }

func (s *Session) Form() generate.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) SetForm(f generate.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Notice returns the pending notice, if any.
func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}

func (s *Session) setNotice(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.notice = NewNotice(op, err)
	}
}

// Toggle flips a skill in the draft. It returns false when no store exists.
func (s *Session) Toggle(skillID string) bool {
	st := s.Progress()
	if st == nil {
		return false
	}
	return st.Toggle(skillID)
}

// Save persists the draft. A failure sets a retry notice and leaves the
// draft in place. A save requested while one is in flight is ignored.
func (s *Session) Save(ctx context.Context) (bool, error) {
	st := s.Progress()
	if st == nil {
		return false, nil
	}
	saved, err := st.Save(ctx)
	if errors.Is(err, progress.ErrSaveInFlight) {
		return false, nil
	}
	if !s.Active() {
		return saved, ErrStale
	}
	if err != nil {
		s.setNotice(OpSave, err)
		return false, err
	}
	return saved, nil
}

// Submit validates f and generates a new roadmap. Validation errors are
// returned without sending anything and without a notice. On success the
// new document replaces the current one and the view switches to it.
func (s *Session) Submit(ctx context.Context, f generate.Form) (*roadmap.Document, error) {
	req, err := generate.Build(f)

	s.mu.Lock()
	s.form = f
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.generating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.generating = true
	var prev []string
	if s.store != nil {
		prev = s.store.Committed().Sorted()
	}
	s.mu.Unlock()

	doc, err := s.builder.Send(ctx, req)

	var seed []string
	if err == nil {
		if st, ferr := s.refresher.FetchStats(ctx); ferr == nil {
			seed = st.SolvedProblems
		} else {
			seed = prev
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if s.closed {
		s.log.Debug("discarding stale generation result")
		return nil, ErrStale
	}
	if err != nil {
		s.notice = NewNotice(OpGenerate, err)
		return nil, err
	}
	if terr := s.machine.Generated(); terr != nil {
		s.log.Warn("generated outside the configuration form", "error", terr)
	}
	s.adopt(doc, seed)
	s.notice = nil
	return doc, nil
}

// BeginBookmark applies the optimistic flip and returns the mutation to
// pass to ResolveBookmark once the controller's Persist returns.
func (s *Session) BeginBookmark() (optimistic.Mutation[bool], *bookmark.Controller, error) {
	s.mu.Lock()
	bm := s.bm
	s.mu.Unlock()
	if bm == nil {
		return optimistic.Mutation[bool]{}, nil, bookmark.ErrNoDocument
	}
	m, err := bm.Begin()
	return m, bm, err
}

// ResolveBookmark settles a bookmark mutation started on bm.
func (s *Session) ResolveBookmark(bm *bookmark.Controller, m optimistic.Mutation[bool], serverValue bool, err error) error {
	rerr := bm.Resolve(m, serverValue, err)
	if !s.Active() {
		return ErrStale
	}
	if rerr != nil {
		s.setNotice(OpBookmark, rerr)
	}
	return rerr
}

// ToggleBookmark runs the whole optimistic cycle synchronously.
func (s *Session) ToggleBookmark(ctx context.Context) error {
	m, bm, err := s.BeginBookmark()
	if err != nil {
		return err
	}
	v, perr := bm.Persist(ctx)
	return s.ResolveBookmark(bm, m, v, perr)
}

// Bookmarked returns the optimistic bookmark flag.
func (s *Session) Bookmarked() bool {
	s.mu.Lock()
	bm := s.bm
	s.mu.Unlock()
	return bm != nil && bm.Bookmarked()
}

// Mastery returns the draft's share of the current document's skills.
func (s *Session) Mastery() float64 {
	s.mu.Lock()
	doc, st := s.doc, s.store
	s.mu.Unlock()
	if st == nil {
		return 0
	}
	return st.MasteryRatio(doc.AllSkillIDs())
}
