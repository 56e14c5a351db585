package roadmapview

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/ui/components"
)

type field int

const (
	fieldRole field = iota
	fieldDays
	fieldWeak
	fieldSubmit
	fieldCount
)

// formModel is the configuration form. It keeps the typed values across
// failed submissions.
type formModel struct {
	role   components.Choice
	days   components.TextInput
	weak   components.TextInput
	submit components.Button
	focus  field
	err    string // errors not tied to an input
}

func newForm(f generate.Form) formModel {
	m := formModel{
		role:   components.NewChoice("Target role", generate.Roles, f.Role),
		days:   components.NewTextInput("Days available", "45", f.Days, true, 4),
		weak:   components.NewTextInput("Weak topics (comma separated)", "e.g. Graphs, DP", f.WeakTopics, false, 200),
		submit: components.NewButton("Generate roadmap", "Generating…"),
	}
	m.focusField(fieldRole)
	return m
}

func (m *formModel) value() generate.Form {
	return generate.Form{
		Role:       m.role.Value(),
		Days:       m.days.Value(),
		WeakTopics: m.weak.Value(),
	}
}

func (m *formModel) focusField(f field) tea.Cmd {
	m.focus = f
	m.role.Blur()
	m.days.Blur()
	m.weak.Blur()
	m.submit.Blur()
	switch f {
	case fieldRole:
		m.role.Focus()
	case fieldDays:
		return m.days.Focus()
	case fieldWeak:
		return m.weak.Focus()
	case fieldSubmit:
		m.submit.Focus()
	}
	return nil
}

func (m *formModel) next() tea.Cmd { return m.focusField((m.focus + 1) % fieldCount) }
func (m *formModel) prev() tea.Cmd { return m.focusField((m.focus + fieldCount - 1) % fieldCount) }

// showError attaches a validation error to its field.
func (m *formModel) showError(err error) {
	m.clearErrors()
	var ve *generate.ValidationError
	if errors.As(err, &ve) && ve.Field == "days" {
		m.days.Err = ve.Reason
		m.focusField(fieldDays)
		return
	}
	m.err = err.Error()
}

func (m *formModel) clearErrors() {
	m.days.Err, m.weak.Err, m.err = "", "", ""
}

// update forwards msg to the focused field.
func (m *formModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldRole:
		m.role, cmd = m.role.Update(msg)
	case fieldDays:
		m.days, cmd = m.days.Update(msg)
	case fieldWeak:
		m.weak, cmd = m.weak.Update(msg)
	}
	return cmd
}
