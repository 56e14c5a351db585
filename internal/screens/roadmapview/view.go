package roadmapview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/ui/components"
	"github.com/abhisek/skilltrail/internal/ui/layout"
	"github.com/abhisek/skilltrail/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.session.State() {
	case acquire.StateConfigurationForm:
		return s.viewForm(width)
	case acquire.StateDocumentView:
		return s.viewDocument(width, height)
	}
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("\n\n  Loading your roadmap...")
}

func (s *Screen) viewNotice(width int) string {
	n := s.session.Notice()
	if n == nil {
		return ""
	}
	msg := n.Message()
	if n.Retryable {
		msg += "  [r] retry"
	}
	msg += "  [d] dismiss"
	return theme.Notice.Width(width-4).Render(msg) + "\n"
}

func (s *Screen) viewForm(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("  Build a personalised roadmap") + "\n")
	if hint := s.loadHint(); hint != "" {
		b.WriteString(theme.Hint.Render("  "+hint) + "\n")
	}
	b.WriteString("\n")

	if n := s.viewNotice(width); n != "" {
		b.WriteString(n + "\n")
	}

	card := strings.Join([]string{
		s.form.role.View(),
		s.form.days.View(),
		s.form.weak.View(),
		s.form.submit.View(),
	}, "\n\n")
	if s.form.err != "" {
		card += "\n\n" + theme.FieldError.Render(s.form.err)
	}

	cardWidth := width - 6
	if cardWidth > 80 {
		cardWidth = 80
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Width(cardWidth).Render(card)))
	return b.String()
}

func (s *Screen) viewDocument(width, height int) string {
	doc := s.doc
	if doc == nil {
		return ""
	}
	st := s.session.Progress()

	var top strings.Builder
	title := theme.Title.Render("  " + doc.Title)
	if s.session.Bookmarked() {
		title += "  " + theme.Bookmarked.Render("★ bookmarked")
	} else {
		title += "  " + theme.Hint.Render("☆")
	}
	if doc.IsSimulated {
		title += "  " + theme.Hint.Render("(offline roadmap)")
	}
	top.WriteString(title + "\n")
	if doc.Description != "" {
		top.WriteString(theme.Subtitle.Render("  "+layout.Truncate(doc.Description, width-4)) + "\n")
	}

	all := doc.AllSkillIDs()
	done := 0
	if st != nil {
		done = st.CountIn(all)
	}
	top.WriteString("  " + components.NewProgressBar("Mastery", done, len(all), width-6).View() + "\n")

	switch {
	case st != nil && st.Saving():
		top.WriteString(theme.Hint.Render("  Saving…") + "\n")
	case st != nil && st.HasUnsavedChanges():
		top.WriteString(theme.Unsaved.Render("  ● Unsaved changes. Press s to save.") + "\n")
	default:
		top.WriteString("\n")
	}
	top.WriteString(s.viewNotice(width))

	detail := s.viewDetail(width)

	listHeight := height - lipgloss.Height(top.String()) - lipgloss.Height(detail) - 1
	if listHeight < 3 {
		listHeight = 3
	}
	return top.String() + s.viewRows(width, listHeight) + "\n" + detail
}

// viewRows renders the visible window of rows around the cursor.
func (s *Screen) viewRows(width, height int) string {
	s.adjustScroll(height)
	st := s.session.Progress()

	lines := make([]string, 0, height)
	for i := s.offset; i < len(s.rows) && len(lines) < height; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowLevel:
			lines = append(lines, theme.LevelHeader.Render(strings.ToUpper(r.label)))
		case rowTrack:
			count := ""
			if st != nil {
				count = fmt.Sprintf("  %d / %d", st.CountIn(r.trackIDs), len(r.trackIDs))
			}
			lines = append(lines, theme.TrackHeader.Render(r.label)+theme.Hint.Render(count))
		case rowSkill:
			lines = append(lines, s.viewSkill(r, i == s.cursor, st != nil && st.IsDone(r.skill.ID), width))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) viewSkill(r row, selected, done bool, width int) string {
	box := "[ ]"
	style := theme.Pending
	if done {
		box = "[✓]"
		style = theme.Done
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
		style = theme.Selected
	}
	name := layout.Truncate(r.skill.Name, width-16)
	return "      " + cursor + style.Render(box+" "+name)
}

func (s *Screen) viewDetail(width int) string {
	sk, ok := s.selectedSkill()
	if !ok {
		return ""
	}
	var b strings.Builder
	if sk.Description != "" {
		b.WriteString(theme.Body.Render("  "+layout.Truncate(sk.Description, width-4)) + "\n")
	}
	for i, res := range sk.Resources {
		if i == 2 {
			break
		}
		b.WriteString("  " + theme.Hint.Render(res.Title+": ") + theme.Link.Render(layout.Truncate(res.URL, width-len(res.Title)-8)) + "\n")
	}
	return b.String()
}

// adjustScroll keeps the cursor, and its level header when it fits, inside
// the window.
func (s *Screen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	top := s.cursor
	for top > 0 && s.rows[top-1].kind != rowSkill {
		top--
	}
	if s.cursor-top >= height {
		top = s.cursor
	}
	if top < s.offset {
		s.offset = top
	}
	if s.cursor >= s.offset+height {
		s.offset = s.cursor - height + 1
	}
}
