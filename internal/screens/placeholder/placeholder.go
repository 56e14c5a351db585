// Package placeholder renders a static message screen, used when there is
// nothing else to show, such as after signing out.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/screen"
	"github.com/abhisek/skilltrail/internal/ui/layout"
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

// MessageScreen shows a title and a short message.
type MessageScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*MessageScreen)(nil)
var _ screen.KeyHintProvider = (*MessageScreen)(nil)

func New(title, message string) *MessageScreen {
	return &MessageScreen{title: title, message: message}
}

// SignedOut is shown once the session has ended.
func SignedOut() *MessageScreen {
	return New("Signed Out", "You have been signed out.\n\nRun `skilltrail login` to sign in again.")
}

func (p *MessageScreen) Init() tea.Cmd {
	return nil
}

func (p *MessageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "q" || k.String() == "enter") {
		return p, tea.Quit
	}
	return p, nil
}

func (p *MessageScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(p.message)
}

func (p *MessageScreen) Title() string {
	return p.title
}

func (p *MessageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "q", Description: "Quit"}}
}
