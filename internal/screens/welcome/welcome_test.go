package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestTrailFillsThenBannerShows(t *testing.T) {
	w, _ := newTestWelcome()

	if w.reached() != 0 {
		t.Errorf("no milestone should be lit at start, got %d", w.reached())
	}
	if strings.Contains(w.View(100, 30), "One skill at a time") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 6)
	if w.reached() != 2 {
		t.Errorf("expected 2 milestones after 600ms, got %d", w.reached())
	}

	sendTicks(w, 12)
	if w.reached() != milestones {
		t.Errorf("expected all milestones, got %d", w.reached())
	}
	if !strings.Contains(w.View(100, 30), "One skill at a time") {
		t.Error("tagline should be visible once the trail is complete")
	}
}

func TestTicksStopWhenDone(t *testing.T) {
	w, calls := newTestWelcome()
	if cmd := sendTicks(w, 100); cmd != nil {
		t.Error("ticking should stop once the animation is complete")
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if *calls != 0 {
		t.Error("should not move on without a keypress")
	}
}

func TestKeypressReplacesOnce(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should move on, even mid-animation")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}

	if _, cmd = w.Update(tea.KeyPressMsg{Code: 'a'}); cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("next screen should be built once, got %d", *calls)
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "S K I L L") {
		t.Error("narrow terminals should get the compact banner")
	}
}
