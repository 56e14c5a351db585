// Package roadmapview is the roadmap screen: it loads or creates a roadmap
// according to the navigation intent, then lets the user tick skills, save
// progress and bookmark the roadmap.
package roadmapview

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/dashboard"
	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/ui/layout"
)

type rowKind int

const (
	rowLevel rowKind = iota
	rowTrack
	rowSkill
)

type row struct {
	kind  rowKind
	level int
	track int
	skill roadmap.Skill
	// ids of the track's skills, set on track rows
	trackIDs []string
	label    string
}

// Screen is one roadmap view. Each navigation creates a new Screen with a
// new dashboard session; closing the screen discards late results.
type Screen struct {
	session *dashboard.Session
	intent  acquire.Intent
	nav     screen.Navigator
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	loaded  bool
	loadErr error // fetch failure that sent us to the form
	form    formModel
	doc     *roadmap.Document
	rows    []row
	cursor  int
	offset  int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

func New(backend dashboard.Backend, intent acquire.Intent, nav screen.Navigator, log *logger.Logger) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	sess := dashboard.New(backend, log)
	return &Screen{
		session: sess,
		intent:  intent,
		nav:     nav,
		log:     logger.OrNop(log),
		ctx:     ctx,
		cancel:  cancel,
		form:    newForm(sess.Form()),
	}
}

func (s *Screen) Init() tea.Cmd {
	sess, ctx, intent := s.session, s.ctx, s.intent
	return func() tea.Msg {
		res, err := sess.Load(ctx, intent)
		return loadedMsg{res: res, err: err}
	}
}

// Close marks the session stale and cancels outstanding reads. Writes
// the user already dispatched run to completion; their results are
// dropped by the stale session.
func (s *Screen) Close() {
	s.session.Close()
	s.cancel()
}

// writeCtx is for saves and bookmark persists, which leaving the screen
// must not abort.
func (s *Screen) writeCtx() context.Context {
	return context.WithoutCancel(s.ctx)
}

func (s *Screen) Title() string {
	if s.doc != nil {
		return s.doc.Title
	}
	if s.loaded {
		return "New Roadmap"
	}
	return "Roadmap"
}

// Status shows the latest known stats.
func (s *Screen) Status() string {
	st, ok := s.session.Stats().Latest()
	if !ok {
		return ""
	}
	return fmt.Sprintf("✔ %d solved   ★ %d day", st.ProblemsSolved, st.StreakDays)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.session.State() {
	case acquire.StateConfigurationForm:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "←→", Description: "Role"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Ctrl+L", Description: "Roadmaps"},
		}
	case acquire.StateDocumentView:
		hints := []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Space", Description: "Toggle"},
			{Key: "s", Description: "Save"},
			{Key: "b", Description: "Bookmark"},
			{Key: "n", Description: "New"},
			{Key: "l", Description: "Roadmaps"},
		}
		if s.session.Notice() != nil {
			hints = append(hints, layout.KeyHint{Key: "r/d", Description: "Retry/Dismiss"})
		}
		return hints
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s, s.handleLoaded(msg)
	case generatedMsg:
		return s, s.handleGenerated(msg)
	case savedMsg:
		// Outcome lives in the session; the message only triggers a redraw.
		return s, nil
	case bookmarkMsg:
		_ = s.session.ResolveBookmark(msg.bm, msg.m, msg.value, msg.err)
		return s, nil
	case tea.KeyMsg:
		switch s.session.State() {
		case acquire.StateConfigurationForm:
			return s, s.updateForm(msg)
		case acquire.StateDocumentView:
			return s, s.updateDocument(msg)
		}
		return s, nil
	}

	if s.session.State() == acquire.StateConfigurationForm {
		return s, s.form.update(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg loadedMsg) tea.Cmd {
	if errors.Is(msg.err, dashboard.ErrStale) {
		return nil
	}
	s.loaded = true
	if msg.err != nil {
		s.log.Warn("roadmap load failed", "intent", s.intent.String(), "error", msg.err)
		s.loadErr = msg.err
		return nil
	}
	s.loadErr = msg.res.FetchErr
	if msg.res.Document != nil {
		s.setDocument(s.session.Document())
		return nil
	}
	return s.form.focusField(fieldRole)
}

func (s *Screen) handleGenerated(msg generatedMsg) tea.Cmd {
	if errors.Is(msg.err, dashboard.ErrStale) || errors.Is(msg.err, dashboard.ErrBusy) {
		return nil
	}
	s.form.submit.Busy = false
	if msg.err != nil {
		var ve *generate.ValidationError
		if errors.As(msg.err, &ve) {
			s.form.showError(msg.err)
		}
		// Other failures surface as the session notice; the form keeps
		// its values.
		return nil
	}
	s.loadErr = nil
	s.setDocument(s.session.Document())
	return nil
}

func (s *Screen) setDocument(doc *roadmap.Document) {
	s.doc = doc
	s.rows = buildRows(doc)
	s.cursor, s.offset = 0, 0
	s.moveCursor(1)
}

func buildRows(doc *roadmap.Document) []row {
	if doc == nil {
		return nil
	}
	var rows []row
	for li, l := range doc.Levels {
		rows = append(rows, row{kind: rowLevel, level: li, label: l.Name})
		for ti, t := range l.Tracks {
			rows = append(rows, row{kind: rowTrack, level: li, track: ti, label: t.Category, trackIDs: t.SkillIDs()})
			for _, sk := range t.Skills {
				rows = append(rows, row{kind: rowSkill, level: li, track: ti, skill: sk, label: sk.Name})
			}
		}
	}
	return rows
}

// moveCursor moves to the nearest skill row in direction delta.
func (s *Screen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if s.rows[next].kind == rowSkill {
			s.cursor = next
			return
		}
	}
}

func (s *Screen) selectedSkill() (roadmap.Skill, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowSkill {
		return roadmap.Skill{}, false
	}
	return s.rows[s.cursor].skill, true
}

func (s *Screen) updateForm(msg tea.KeyMsg) tea.Cmd {
	if s.form.submit.Busy || s.session.Generating() {
		return nil
	}
	switch msg.String() {
	case "tab", "down":
		return s.form.next()
	case "shift+tab", "up":
		return s.form.prev()
	case "enter":
		return s.submit()
	case "ctrl+l":
		return s.openList()
	case "d":
		if s.form.focus == fieldRole || s.form.focus == fieldSubmit {
			s.session.DismissNotice()
			return nil
		}
	}
	return s.form.update(msg)
}

// submit validates the form locally and starts generation.
func (s *Screen) submit() tea.Cmd {
	f := s.form.value()
	if _, err := generate.Build(f); err != nil {
		s.session.SetForm(f)
		s.form.showError(err)
		return nil
	}
	s.form.clearErrors()
	s.form.submit.Busy = true
	s.session.DismissNotice()

	sess, ctx := s.session, s.ctx
	return func() tea.Msg {
		doc, err := sess.Submit(ctx, f)
		return generatedMsg{doc: doc, err: err}
	}
}

func (s *Screen) updateDocument(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "space", " ", "enter", "x":
		if sk, ok := s.selectedSkill(); ok {
			s.session.Toggle(sk.ID)
		}
	case "s":
		return s.save()
	case "b":
		return s.bookmark()
	case "n":
		return s.newRoadmap()
	case "l":
		return s.openList()
	case "d":
		s.session.DismissNotice()
	case "r":
		return s.retry()
	}
	return nil
}

func (s *Screen) save() tea.Cmd {
	st := s.session.Progress()
	if st == nil || st.Saving() || !st.HasUnsavedChanges() {
		return nil
	}
	s.session.DismissNotice()
	sess, ctx := s.session, s.writeCtx()
	return func() tea.Msg {
		saved, err := sess.Save(ctx)
		return savedMsg{saved: saved, err: err}
	}
}

// bookmark applies the flip now and persists it in the background.
func (s *Screen) bookmark() tea.Cmd {
	m, bm, err := s.session.BeginBookmark()
	if err != nil {
		s.log.Debug("bookmark unavailable", "error", err)
		return nil
	}
	ctx := s.writeCtx()
	return func() tea.Msg {
		v, perr := bm.Persist(ctx)
		return bookmarkMsg{bm: bm, m: m, value: v, err: perr}
	}
}

func (s *Screen) retry() tea.Cmd {
	n := s.session.Notice()
	if n == nil || !n.Retryable {
		return nil
	}
	s.session.DismissNotice()
	switch n.Op {
	case dashboard.OpSave:
		return s.save()
	case dashboard.OpBookmark:
		return s.bookmark()
	}
	return nil
}

func (s *Screen) newRoadmap() tea.Cmd {
	if s.nav == nil {
		return nil
	}
	next := s.nav.Roadmap(acquire.ForceNew())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) openList() tea.Cmd {
	if s.nav == nil {
		return nil
	}
	list := s.nav.RoadmapList()
	return func() tea.Msg { return router.PushScreenMsg{Screen: list} }
}

// loadHint explains why the form is shown instead of a roadmap.
func (s *Screen) loadHint() string {
	switch {
	case s.loadErr == nil:
		return ""
	case errors.Is(s.loadErr, api.ErrNotFound):
		if s.intent.Kind == acquire.IntentByID {
			return "That roadmap no longer exists. Create a new one below."
		}
		return "No saved roadmap yet. Create your first one below."
	case errors.Is(s.loadErr, api.ErrUnauthorized):
		return "You are not signed in. Run `skilltrail login` first."
	default:
		return "Could not load your saved roadmap. You can create a new one below."
	}
}
