package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/devo/pkg/dailyverse"
	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/slot"
)

const helpLine = "tab focus · ↑/↓ moods · enter select · pgup/pgdn fewer/more · ctrl+g devotion · ctrl+r daily · esc quit"

// View renders the page.
func (m Model) View() string {
	var b strings.Builder
	if header := m.dailyView(); header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	b.WriteString(m.moodView())
	b.WriteString("\n\n")
	b.WriteString(m.suggestionsView())
	b.WriteString("\n")
	b.WriteString(m.field(focusReference, "Reference"))
	b.WriteString(m.inlineStatus(m.snap.Content))
	b.WriteString("\n")
	b.WriteString(m.field(focusContent, "Content"))
	b.WriteString("\n\n")
	b.WriteString(m.devotionView())
	if m.notice != "" {
		style := m.theme.Notice
		if m.failed {
			style = m.theme.Error
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render(helpLine))
	return b.String()
}

func (m Model) width() int {
	if m.termWidth <= 0 {
		return 80
	}
	return m.termWidth
}

func (m Model) dailyView() string {
	if m.daily == nil {
		return ""
	}
	switch m.daily.State() {
	case dailyverse.Ready:
		e := m.daily.Entry()
		return m.theme.Title.Render("Verse of the day") + " " +
			m.theme.Faint.Render(e.DateKey) + "\n" +
			wordwrap.String(fmt.Sprintf("%s  %s", e.Verse.Reference, e.Verse.Preview), m.width())
	case dailyverse.Unavailable:
		return m.theme.Error.Render("Verse of the day unavailable: "+perr.Message(m.daily.Err())) + "\n" +
			m.theme.Faint.Render("ctrl+r to retry")
	case dailyverse.Loading:
		return m.theme.Faint.Render(m.spin.View() + " loading verse of the day")
	}
	return ""
}

func (m Model) moodView() string {
	chips := make([]string, 0, len(m.moods))
	for _, mood := range m.moods {
		style := m.theme.Mood
		if mood.Name == m.snap.Mood {
			style = m.theme.MoodOn
		}
		chips = append(chips, style.Render(mood.Emoji+" "+mood.Name))
	}
	rows := wrapChips(chips, m.width())
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, m.field(focusMood, "Mood"))...)
}

// wrapChips lays chips out in rows no wider than width.
func wrapChips(chips []string, width int) []string {
	var rows []string
	var row []string
	w := 0
	for _, c := range chips {
		cw := lipgloss.Width(c)
		if w > 0 && w+cw > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, w = nil, 0
		}
		row = append(row, c)
		w += cw
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return rows
}

func (m Model) field(f focus, label string) string {
	style := m.theme.Label
	if m.focus == f {
		style = m.theme.Focused
	}
	return style.Render(fmt.Sprintf("%-10s", label)) + " " + m.inputs[f].View()
}

func (m Model) inlineStatus(s slot.Snapshot[string]) string {
	switch s.Status {
	case slot.Loading:
		return " " + m.spin.View()
	case slot.Error:
		return " " + m.theme.Error.Render(s.Message())
	}
	return ""
}

func (m Model) suggestionsView() string {
	s := m.snap
	switch s.Suggestions.Status {
	case slot.Idle:
		return m.theme.Faint.Render("Pick or type a mood to see verses.") + "\n"
	case slot.Loading:
		return m.spin.View() + " finding verses for " + s.Mood + "\n"
	case slot.Error:
		return m.theme.Error.Render(s.Suggestions.Message()) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("%s - %d of %d verses", s.Mood, len(s.Visible), s.Total)))
	b.WriteString("\n")
	if len(s.Visible) == 0 {
		b.WriteString(m.theme.Faint.Render(" none"))
		b.WriteString("\n")
	}
	for i, v := range s.Visible {
		marker := "  "
		ref := v.Reference
		if m.focus == focusList && i == m.cursor {
			marker = m.theme.Cursor.Render("➜ ")
			ref = m.theme.Cursor.Render(ref)
		}
		fmt.Fprintf(&b, "%s%2d. %s\n", marker, i+1, ref)
		if v.Preview != "" {
			b.WriteString(m.theme.Faint.Render(indent(wordwrap.String(v.Preview, m.width()-6), "      ")))
			b.WriteString("\n")
		}
	}
	var more []string
	if s.HasMore {
		more = append(more, "pgdn for more")
	}
	if s.CanCollapse {
		more = append(more, "pgup for fewer")
	}
	if len(more) > 0 {
		b.WriteString(m.theme.Faint.Render(strings.Join(more, " · ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) devotionView() string {
	d := m.snap.Devotion
	switch d.Status {
	case slot.Loading:
		return m.spin.View() + " writing a devotion\n\n"
	case slot.Error:
		return m.theme.Error.Render(d.Message()) + "\n\n"
	case slot.Success:
		body := wordwrap.String(d.Value.Body, m.width()-6)
		return m.theme.Devotion.Render(m.theme.Title.Render(d.Value.Title)+"\n\n"+body) + "\n\n"
	}
	return ""
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
