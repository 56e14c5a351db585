// Package welcome is the splash screen shown on start-up.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	stepEvery    = 300 * time.Millisecond
	milestones   = 6
	trailEnd     = milestones * stepEvery
	totalDur     = trailEnd + 600*time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen draws a trail of milestones, then the banner. Any key
// moves on to the screen built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned || w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// reached is how many milestones are lit.
func (w *WelcomeScreen) reached() int {
	n := int(w.elapsed / stepEvery)
	if n > milestones {
		n = milestones
	}
	return n
}

func (w *WelcomeScreen) renderTrail() string {
	lit := lipgloss.NewStyle().Foreground(theme.Success)
	dim := lipgloss.NewStyle().Foreground(theme.Border)
	flag := lipgloss.NewStyle().Foreground(theme.Accent)

	n := w.reached()
	var b strings.Builder
	for i := 0; i < milestones; i++ {
		if i > 0 {
			if i <= n {
				b.WriteString(lit.Render("───"))
			} else {
				b.WriteString(dim.Render("───"))
			}
		}
		switch {
		case i == milestones-1 && n == milestones:
			b.WriteString(flag.Render("⚑"))
		case i < n:
			b.WriteString(lit.Render("●"))
		default:
			b.WriteString(dim.Render("○"))
		}
	}
	return b.String()
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.renderTrail()}

	if w.elapsed >= trailEnd {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("One skill at a time."),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
