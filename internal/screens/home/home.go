// Package home is the start screen: the streak counters and a menu into
// the roadmap screens.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/stats"
	"github.com/abhisek/skilltrail/internal/ui/components"
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

const banner = `┏━┓╻┏ ╻╻  ╻  ╺┳╸┏━┓┏━┓╻╻
┗━┓┣┻┓┃┃  ┃   ┃ ┣┳┛┣━┫┃┃
┗━┛╹ ╹╹┗━╸┗━╸ ╹ ╹┗╸╹ ╹╹┗━╸`

type statsLoadedMsg struct {
	stats stats.Stats
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu    components.Menu
	fetcher stats.Fetcher
	stats   stats.Stats
	loaded  bool
	offline bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. fetcher may be nil when signed out.
func New(fetcher stats.Fetcher, nav screen.Navigator) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			next := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}

	items := []components.MenuItem{
		{
			Label:       "Continue",
			Description: "Open your most recent roadmap",
			Action:      push(func() screen.Screen { return nav.Roadmap(acquire.None()) }),
		},
		{
			Label:       "New roadmap",
			Description: "Generate a roadmap for a role and timeline",
			Action:      push(func() screen.Screen { return nav.Roadmap(acquire.ForceNew()) }),
		},
		{
			Label:       "My roadmaps",
			Description: "Browse, bookmark and clean up saved roadmaps",
			Action:      push(nav.RoadmapList),
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		fetcher: fetcher,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.fetcher == nil {
		return nil
	}
	f := h.fetcher
	return func() tea.Msg {
		st, err := f.FetchStats(context.Background())
		return statsLoadedMsg{stats: st, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.loaded = true
		h.offline = m.err != nil
		if m.err == nil {
			h.stats = m.stats
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	if width >= 40 {
		sections = append(sections, theme.Title.Render(banner))
	} else {
		sections = append(sections, theme.Title.Render("SkillTrail"))
	}
	sections = append(sections, theme.Subtitle.Render("Interview prep, one skill at a time"))
	sections = append(sections, h.renderStats())
	sections = append(sections, theme.Card.Width(min(width-4, 60)).Render(strings.TrimRight(h.menu.View(), "\n")))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderStats() string {
	switch {
	case !h.loaded:
		return theme.Hint.Render("Loading your streak...")
	case h.offline:
		return theme.Hint.Render("Stats unavailable")
	}
	solved := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
		Render(fmt.Sprintf("✔ %d solved", h.stats.ProblemsSolved))
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("★ %d day streak", h.stats.StreakDays))
	return solved + "    " + streak
}

func (h *HomeScreen) Title() string {
	return "Home"
}
