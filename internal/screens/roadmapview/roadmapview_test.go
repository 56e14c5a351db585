package roadmapview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/dashboard"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/stats"
)

// mockBackend implements dashboard.Backend for testing.
type mockBackend struct {
	mu sync.Mutex

	latest    *roadmap.Document
	byID      map[string]*roadmap.Document
	generated *roadmap.Document
	bmErr     error

	fetches   int
	bookmarks int
	saves     [][]string
	generates []api.GenerateRequest
	solved    []string
}

func (m *mockBackend) FetchLatest(context.Context) (*roadmap.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.latest == nil {
		return nil, api.ErrNotFound
	}
	return m.latest.Clone(), nil
}

func (m *mockBackend) FetchByID(_ context.Context, id string) (*roadmap.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if d, ok := m.byID[id]; ok {
		return d.Clone(), nil
	}
	return nil, api.ErrNotFound
}

func (m *mockBackend) FetchStats(context.Context) (stats.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return stats.Stats{ProblemsSolved: len(m.solved), StreakDays: 2, SolvedProblems: m.solved}, nil
}

func (m *mockBackend) Generate(_ context.Context, req api.GenerateRequest) (*roadmap.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generates = append(m.generates, req)
	return m.generated.Clone(), nil
}

// The write methods fail on a cancelled context the way an aborted HTTP
// request would, without reaching the server.
func (m *mockBackend) SaveProgress(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, ids)
	m.solved = ids
	return nil
}

func (m *mockBackend) ToggleBookmark(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookmarks++
	if m.bmErr != nil {
		return false, m.bmErr
	}
	return true, nil
}

// stubNav records which screens were requested.
type stubNav struct {
	intents []acquire.Intent
	lists   int
}

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return s.name }
func (s *stubScreen) Title() string                          { return s.name }

func (n *stubNav) Roadmap(intent acquire.Intent) screen.Screen {
	n.intents = append(n.intents, intent)
	return &stubScreen{name: "roadmap"}
}

func (n *stubNav) RoadmapList() screen.Screen {
	n.lists++
	return &stubScreen{name: "list"}
}

func testDoc(id string) *roadmap.Document {
	return &roadmap.Document{
		ID:    id,
		Title: "Backend Developer Roadmap",
		Levels: []roadmap.Level{{
			Name: "Beginner",
			Tracks: []roadmap.Track{{
				Category: "DSA",
				Skills: []roadmap.Skill{
					{ID: "a", Name: "Arrays", Description: "Indexing and slicing"},
					{ID: "b", Name: "Hashing"},
				},
			}, {
				Category: "System Design",
				Skills: []roadmap.Skill{
					{ID: "c", Name: "Caching", Resources: []roadmap.Resource{{Title: "Guide", URL: "https://example.com/cache"}}},
				},
			}},
		}},
	}
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// drive runs cmd and feeds its message back into the screen, the way the
// program loop would, until no command is left. Messages that are not
// the screen's own, like cursor blinks, are dropped.
func drive(s *Screen, cmd tea.Cmd) tea.Msg {
	var last tea.Msg
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case loadedMsg, generatedMsg, savedMsg, bookmarkMsg:
		default:
			return msg
		}
		last = msg
		_, cmd = s.Update(msg)
	}
	return last
}

func press(s *Screen, keys ...string) tea.Msg {
	var last tea.Msg
	for _, k := range keys {
		_, cmd := s.Update(key(k))
		if msg := drive(s, cmd); msg != nil {
			last = msg
		}
	}
	return last
}

// typeKeys sends keys without running the resulting commands. Focus
// changes in the form return cursor blink ticks that would block.
func typeKeys(s *Screen, keys ...string) {
	for _, k := range keys {
		s.Update(key(k))
	}
}

func TestLoadShowsDocument(t *testing.T) {
	b := &mockBackend{latest: testDoc("rm1"), solved: []string{"c"}}
	s := New(b, acquire.None(), &stubNav{}, nil)
	drive(s, s.Init())

	if s.session.State() != acquire.StateDocumentView {
		t.Fatalf("expected document view, got %v", s.session.State())
	}
	if s.Title() != "Backend Developer Roadmap" {
		t.Errorf("unexpected title %q", s.Title())
	}
	if sk, ok := s.selectedSkill(); !ok || sk.ID != "a" {
		t.Errorf("cursor should start on the first skill, got %+v", sk)
	}

	view := s.View(100, 30)
	for _, want := range []string{"BEGINNER", "DSA", "Arrays", "1 / 1", "Indexing and slicing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(s.Status(), "1 solved") {
		t.Errorf("status should report stats, got %q", s.Status())
	}
}

func TestToggleAndSave(t *testing.T) {
	b := &mockBackend{latest: testDoc("rm1")}
	s := New(b, acquire.None(), &stubNav{}, nil)
	drive(s, s.Init())

	press(s, "s")
	if len(b.saves) != 0 {
		t.Fatal("save without changes should not call the backend")
	}

	press(s, "space", "j", "x")
	if !s.session.Progress().HasUnsavedChanges() {
		t.Fatal("expected unsaved changes after toggling")
	}
	if !strings.Contains(s.View(100, 30), "Unsaved changes") {
		t.Error("view should flag unsaved changes")
	}

	press(s, "s")
	if len(b.saves) != 1 {
		t.Fatalf("expected one save, got %d", len(b.saves))
	}
	if got := strings.Join(b.saves[0], ","); got != "a,b" {
		t.Errorf("saved %q, want a,b", got)
	}
	if s.session.Progress().HasUnsavedChanges() {
		t.Error("draft should be committed after save")
	}
}

func TestCursorSkipsHeaders(t *testing.T) {
	s := New(&mockBackend{latest: testDoc("rm1")}, acquire.None(), nil, nil)
	drive(s, s.Init())

	press(s, "j", "j")
	if sk, _ := s.selectedSkill(); sk.ID != "c" {
		t.Errorf("expected cursor on c, got %q", sk.ID)
	}
	press(s, "j")
	if sk, _ := s.selectedSkill(); sk.ID != "c" {
		t.Errorf("cursor should stay on the last skill, got %q", sk.ID)
	}
	press(s, "k", "k", "k")
	if sk, _ := s.selectedSkill(); sk.ID != "a" {
		t.Errorf("cursor should stop on the first skill, got %q", sk.ID)
	}
}

func TestNotFoundShowsForm(t *testing.T) {
	s := New(&mockBackend{}, acquire.None(), &stubNav{}, nil)
	drive(s, s.Init())

	if s.session.State() != acquire.StateConfigurationForm {
		t.Fatalf("expected configuration form, got %v", s.session.State())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "No saved roadmap yet") {
		t.Error("form should explain that nothing was found")
	}
	if s.Title() != "New Roadmap" {
		t.Errorf("unexpected title %q", s.Title())
	}
}

func TestMissingIDHint(t *testing.T) {
	s := New(&mockBackend{}, acquire.ByID("gone"), nil, nil)
	drive(s, s.Init())

	if !strings.Contains(s.View(100, 30), "no longer exists") {
		t.Error("form should explain that the roadmap is gone")
	}
}

func TestInvalidDaysDoesNotGenerate(t *testing.T) {
	b := &mockBackend{generated: testDoc("new")}
	s := New(b, acquire.ForceNew(), nil, nil)
	drive(s, s.Init())

	s.form.days.Model.SetValue("0")
	press(s, "enter")

	if len(b.generates) != 0 {
		t.Fatal("invalid input must not reach the backend")
	}
	if s.form.days.Err == "" {
		t.Error("days field should carry the error")
	}
	if s.form.focus != fieldDays {
		t.Error("focus should move to the invalid field")
	}
	if !strings.Contains(s.View(100, 30), "greater than zero") {
		t.Error("view should show the field error")
	}
}

func TestGenerateFromForm(t *testing.T) {
	b := &mockBackend{generated: testDoc("new")}
	s := New(b, acquire.ForceNew(), nil, nil)
	drive(s, s.Init())

	if b.fetches != 0 {
		t.Error("a forced new roadmap must not fetch")
	}

	typeKeys(s, "tab", "tab", "D", "P")
	press(s, "enter")

	if len(b.generates) != 1 {
		t.Fatalf("expected one generate call, got %d", len(b.generates))
	}
	req := b.generates[0]
	if req.DaysRemaining != 45 || !req.ForceRegenerate {
		t.Errorf("unexpected request %+v", req)
	}
	if len(req.WeakPatterns) != 1 || req.WeakPatterns[0] != "DP" {
		t.Errorf("unexpected weak patterns %v", req.WeakPatterns)
	}
	if s.session.State() != acquire.StateDocumentView || s.doc == nil || s.doc.ID != "new" {
		t.Error("generated roadmap should be shown")
	}
	if s.form.submit.Busy {
		t.Error("submit button should be released")
	}
}

func TestBookmarkRollbackAndRetry(t *testing.T) {
	b := &mockBackend{latest: testDoc("rm1"), bmErr: &api.StatusError{Code: 503}}
	s := New(b, acquire.None(), nil, nil)
	drive(s, s.Init())

	_, cmd := s.Update(key("b"))
	if !s.session.Bookmarked() {
		t.Error("bookmark should flip before the request completes")
	}
	drive(s, cmd)

	if s.session.Bookmarked() {
		t.Error("failed bookmark should roll back")
	}
	n := s.session.Notice()
	if n == nil || n.Op != dashboard.OpBookmark || !n.Retryable {
		t.Fatalf("expected retryable bookmark notice, got %+v", n)
	}
	if !strings.Contains(s.View(100, 30), "Failed to update bookmark") {
		t.Error("notice should be visible")
	}

	b.mu.Lock()
	b.bmErr = nil
	b.mu.Unlock()
	press(s, "r")
	if !s.session.Bookmarked() {
		t.Error("retry should bookmark")
	}
	if s.session.Notice() != nil {
		t.Error("notice should clear on retry")
	}
}

func TestClosedScreenIgnoresLoad(t *testing.T) {
	b := &mockBackend{latest: testDoc("rm1")}
	s := New(b, acquire.None(), nil, nil)
	cmd := s.Init()
	s.Close()
	drive(s, cmd)

	if s.doc != nil || s.loaded {
		t.Error("a closed screen must not adopt late results")
	}
}

func TestLeavingDoesNotAbortDispatchedWrites(t *testing.T) {
	b := &mockBackend{latest: testDoc("rm1")}
	s := New(b, acquire.None(), &stubNav{}, nil)
	drive(s, s.Init())

	press(s, "space")
	_, saveCmd := s.Update(key("s"))
	_, bmCmd := s.Update(key("b"))
	if saveCmd == nil || bmCmd == nil {
		t.Fatal("expected save and bookmark commands")
	}

	if _, ok := press(s, "n").(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected the screen to be replaced")
	}
	// The router closes the screen it replaces.
	s.Close()

	saved, ok := saveCmd().(savedMsg)
	if !ok {
		t.Fatal("expected savedMsg")
	}
	s.Update(saved)
	bmCmd()

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.saves) != 1 || strings.Join(b.saves[0], ",") != "a" {
		t.Errorf("save should reach the server after leaving, got %v", b.saves)
	}
	if b.bookmarks != 1 {
		t.Errorf("bookmark should reach the server after leaving, got %d calls", b.bookmarks)
	}
	if !errors.Is(saved.err, dashboard.ErrStale) {
		t.Errorf("late save result should be reported stale, got %v", saved.err)
	}
	if s.session.Notice() != nil {
		t.Error("a stale result must not raise a notice")
	}
}

func TestNavigation(t *testing.T) {
	nav := &stubNav{}
	s := New(&mockBackend{latest: testDoc("rm1")}, acquire.None(), nav, nil)
	drive(s, s.Init())

	msg := press(s, "n")
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", msg)
	}
	if len(nav.intents) != 1 || nav.intents[0].Kind != acquire.IntentForceNew {
		t.Errorf("expected a forced new roadmap, got %v", nav.intents)
	}

	msg = press(s, "l")
	if _, ok := msg.(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", msg)
	}
	if nav.lists != 1 {
		t.Errorf("expected list screen to be requested once, got %d", nav.lists)
	}
}
