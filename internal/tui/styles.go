package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	activeFilterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Padding(0, 1).
				Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			MarginTop(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// trackerStyle colors a title with the tracker's own color.
func trackerStyle(hex string, completed bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + hex))
	if completed {
		s = s.Bold(true)
	}
	return s
}
