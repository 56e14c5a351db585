package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/ui/theme"
)

// Choice is a single-line selector cycled with left and right.
type Choice struct {
	Label    string
	Options  []string
	Selected int
	focused  bool
}

// NewChoice selects value if it is one of options, else the first option.
func NewChoice(label string, options []string, value string) Choice {
	c := Choice{Label: label, Options: options}
	for i, o := range options {
		if o == value {
			c.Selected = i
			break
		}
	}
	return c
}

func (c *Choice) Focus()        { c.focused = true }
func (c *Choice) Blur()         { c.focused = false }
func (c Choice) Focused() bool { return c.focused }

// Value returns the selected option, or "" when there are none.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// Update cycles the selection. It ignores keys while unfocused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || len(c.Options) == 0 {
		return c, nil
	}
	switch kmsg.String() {
	case "left", "h":
		c.Selected = (c.Selected - 1 + len(c.Options)) % len(c.Options)
	case "right", "l":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c, nil
}

func (c Choice) View() string {
	label := theme.Subtitle.Render(c.Label)
	if c.focused {
		label = theme.Selected.Render(c.Label)
	}

	parts := make([]string, len(c.Options))
	for i, o := range c.Options {
		if i == c.Selected {
			style := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
			if c.focused {
				style = style.Foreground(theme.Primary)
			}
			parts[i] = style.Render("‹ " + o + " ›")
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(o)
		}
	}
	return label + "\n" + strings.Join(parts, "  ")
}
