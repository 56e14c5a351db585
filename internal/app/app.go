package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/auth"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/router"
	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/screens/home"
	"github.com/abhisek/skilltrail/internal/screens/placeholder"
	"github.com/abhisek/skilltrail/internal/screens/roadmaps"
	"github.com/abhisek/skilltrail/internal/screens/roadmapview"
	"github.com/abhisek/skilltrail/internal/screens/welcome"
	"github.com/abhisek/skilltrail/internal/ui/layout"
)

// Options configures the terminal client.
type Options struct {
	Client *api.Client
	Auth   *auth.Session

	// Intent opens a roadmap directly instead of the home menu. The zero
	// value shows the home menu.
	Intent *acquire.Intent

	// SkipSplash starts on the home menu without the welcome animation.
	SkipSplash bool

	Log *logger.Logger
}

type signedOutMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	log    *logger.Logger
	width  int
	height int
}

// nav builds screens against the shared client.
type nav struct {
	client *api.Client
	log    *logger.Logger
}

func (n nav) Roadmap(intent acquire.Intent) screen.Screen {
	return roadmapview.New(n.client, intent, n, n.log)
}

func (n nav) RoadmapList() screen.Screen {
	return roadmaps.New(n.client, n, n.log)
}

var _ screen.Navigator = nav{}

func newAppModel(opts Options) AppModel {
	log := logger.OrNop(opts.Log)
	n := nav{client: opts.Client, log: log}

	var first screen.Screen
	switch {
	case opts.Auth != nil && !opts.Auth.LoggedIn(context.Background()):
		first = placeholder.New("Not Signed In", "You are not signed in.\n\nRun `skilltrail login <username>` first.")
	case opts.Intent != nil:
		first = n.Roadmap(*opts.Intent)
	case opts.SkipSplash:
		first = home.New(opts.Client, n)
	default:
		first = welcome.New(func() screen.Screen { return home.New(opts.Client, n) })
	}

	return AppModel{
		router: router.New(first),
		opts:   opts,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case signedOutMsg:
		return m, m.router.Update(router.ResetScreenMsg{Screen: placeholder.SignedOut()})

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+o":
			return m, m.signOut()
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// signOut clears the credential. The session's logout listener takes the
// UI to the signed-out screen.
func (m AppModel) signOut() tea.Cmd {
	a, client, log := m.opts.Auth, m.opts.Client, m.log
	if a == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := a.Logout(context.Background(), client); err != nil {
			log.Warn("sign-out incomplete", "error", err)
		}
		return nil
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	model := newAppModel(opts)
	p := tea.NewProgram(model)
	if opts.Auth != nil {
		opts.Auth.OnLogout(func() { p.Send(signedOutMsg{}) })
	}
	_, err := p.Run()
	model.router.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
