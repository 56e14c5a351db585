package components

import (
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

// Button is a focusable action label. Busy buttons show BusyLabel and are
// rendered inactive.
type Button struct {
	Label     string
	BusyLabel string
	Busy      bool
	focused   bool
}

func NewButton(label, busyLabel string) Button {
	return Button{Label: label, BusyLabel: busyLabel}
}

func (b *Button) Focus()        { b.focused = true }
func (b *Button) Blur()         { b.focused = false }
func (b Button) Focused() bool { return b.focused }

func (b Button) View() string {
	if b.Busy {
		return theme.ButtonInactive.Render("  " + b.BusyLabel + " ")
	}
	label := "  ▸ " + b.Label + " "
	if b.focused {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
