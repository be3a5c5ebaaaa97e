package teaui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the discover UI.
type Theme struct {
	Title    lipgloss.Style
	Faint    lipgloss.Style
	Mood     lipgloss.Style
	MoodOn   lipgloss.Style
	Cursor   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Devotion lipgloss.Style
	Help     lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Faint:    lipgloss.NewStyle().Faint(true),
		Mood:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		MoodOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Reverse(true).Padding(0, 1),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Label:    label,
		Focused:  label.Copy().Foreground(lipgloss.Color("218")).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Devotion: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
