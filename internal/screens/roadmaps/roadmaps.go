// Package roadmaps lists the user's saved roadmaps.
package roadmaps

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/bookmark"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/optimistic"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/ui/layout"
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

// Backend lists roadmaps and edits their flags.
type Backend interface {
	bookmark.Persister
	ListRoadmaps(ctx context.Context) ([]roadmap.Summary, error)
	Cleanup(ctx context.Context) (int, error)
}

type listLoadedMsg struct {
	items []roadmap.Summary
	err   error
}

type bookmarkMsg struct {
	id    string
	m     optimistic.Mutation[bool]
	value bool
	err   error
}

type cleanedMsg struct {
	removed int
	err     error
}

// entry is one row. Each keeps its own bookmark controller so that rapid
// toggles on the same row reconcile against each other.
type entry struct {
	summary roadmap.Summary
	doc     *roadmap.Document
	bm      *bookmark.Controller
}

// ListScreen shows saved roadmaps, newest first.
type ListScreen struct {
	backend Backend
	nav     screen.Navigator
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	entries  []*entry
	selected int
	loaded   bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.Closer = (*ListScreen)(nil)

func New(backend Backend, nav screen.Navigator, log *logger.Logger) *ListScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &ListScreen{
		backend: backend,
		nav:     nav,
		log:     logger.OrNop(log),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *ListScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ListScreen) load() tea.Cmd {
	b, ctx := s.backend, s.ctx
	return func() tea.Msg {
		items, err := b.ListRoadmaps(ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

// Close cancels the list fetch. Bookmark toggles and cleanups already
// sent are left to finish.
func (s *ListScreen) Close() { s.cancel() }

func (s *ListScreen) Title() string {
	return "My Roadmaps"
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "b", Description: "Bookmark"},
		{Key: "n", Description: "New"},
		{Key: "c", Description: "Clean up"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.setItems(msg.items)
		return s, nil

	case bookmarkMsg:
		e := s.find(msg.id)
		if e == nil {
			return s, nil
		}
		if err := e.bm.Resolve(msg.m, msg.value, msg.err); err != nil {
			s.notice = "Failed to update bookmark. Please try again."
		}
		e.summary.IsBookmarked = e.bm.Bookmarked()
		return s, nil

	case cleanedMsg:
		if msg.err != nil {
			s.notice = "Cleanup failed: " + msg.err.Error()
			return s, nil
		}
		s.notice = fmt.Sprintf("Removed %d unbookmarked roadmap(s).", msg.removed)
		return s, s.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			return s, s.open()
		case "n":
			if s.nav != nil {
				next := s.nav.Roadmap(acquire.ForceNew())
				return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
			}
		case "b":
			return s, s.toggleBookmark()
		case "c":
			return s, s.cleanup()
		case "r":
			return s, s.load()
		}
	}
	return s, nil
}

func (s *ListScreen) setItems(items []roadmap.Summary) {
	prev := make(map[string]*entry, len(s.entries))
	for _, e := range s.entries {
		prev[e.summary.ID] = e
	}
	s.entries = s.entries[:0]
	for _, it := range items {
		if e, ok := prev[it.ID]; ok {
			e.summary = it
			e.summary.IsBookmarked = e.bm.Bookmarked()
			s.entries = append(s.entries, e)
			continue
		}
		doc := &roadmap.Document{ID: it.ID, Title: it.Title, IsBookmarked: it.IsBookmarked}
		s.entries = append(s.entries, &entry{
			summary: it,
			doc:     doc,
			bm:      bookmark.NewController(doc, s.backend, s.log),
		})
	}
	if s.selected >= len(s.entries) {
		s.selected = max(len(s.entries)-1, 0)
	}
}

func (s *ListScreen) find(id string) *entry {
	for _, e := range s.entries {
		if e.summary.ID == id {
			return e
		}
	}
	return nil
}

func (s *ListScreen) current() *entry {
	if s.selected < 0 || s.selected >= len(s.entries) {
		return nil
	}
	return s.entries[s.selected]
}

func (s *ListScreen) open() tea.Cmd {
	e := s.current()
	if e == nil || s.nav == nil {
		return nil
	}
	next := s.nav.Roadmap(acquire.ByID(e.summary.ID))
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

func (s *ListScreen) toggleBookmark() tea.Cmd {
	e := s.current()
	if e == nil {
		return nil
	}
	m, err := e.bm.Begin()
	if err != nil {
		return nil
	}
	e.summary.IsBookmarked = e.bm.Bookmarked()
	s.notice = ""
	bm, id, ctx := e.bm, e.summary.ID, context.WithoutCancel(s.ctx)
	return func() tea.Msg {
		v, perr := bm.Persist(ctx)
		return bookmarkMsg{id: id, m: m, value: v, err: perr}
	}
}

func (s *ListScreen) cleanup() tea.Cmd {
	b, ctx := s.backend, context.WithoutCancel(s.ctx)
	return func() tea.Msg {
		n, err := b.Cleanup(ctx)
		return cleanedMsg{removed: n, err: err}
	}
}

func (s *ListScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nPress r to retry.", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading roadmaps...")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(s.notice)) + "\n\n")
	}
	if len(s.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No roadmaps yet. Press n to create one."))
		return b.String()
	}

	for i, e := range s.entries {
		sm := e.summary
		mark := "☆"
		if sm.IsBookmarked {
			mark = theme.Bookmarked.Render("★")
		}
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		title := sm.Title
		if title == "" {
			title = sm.Role
		}
		line := fmt.Sprintf("%s%s  %s  %s  %d days  %d skills",
			prefix, mark, sm.CreatedAt.Local().Format("Jan 02, 2006"),
			layout.Truncate(title, 40), sm.Days, sm.TotalSkills)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
