package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/query"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddTracker:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	case StateStats:
		content = m.viewStats()
	default:
		content = m.viewDay()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewHeader() string {
	date := headerStyle.Render("‹ " + m.browser.Date().Format("Monday, "+constants.DateFormat) + " ›")

	filter := m.browser.Filter()
	fs := filterStyle
	if filter.IsActive() {
		fs = activeFilterStyle
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, date, fs.Render(filter.Title()))

	if m.state == StateSearch || m.browser.Search() != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.search.View())
	}
	return header
}

func (m Model) viewDay() string {
	state := m.browser.State()
	switch state.EmptyReason {
	case models.EmptyNoTrackersForDate:
		if !state.HasTrackers {
			return docStyle.Render("No trackers yet.\nPress 'a' to add one.")
		}
		return docStyle.Render("Nothing to track on this day.")
	case models.EmptyNoResults:
		return docStyle.Render("Nothing found.")
	}

	cells := m.browser.Cells()
	byID := make(map[uuid.UUID]query.Cell, len(cells))
	for _, c := range cells {
		byID[c.Tracker.ID] = c
	}
	var selected uuid.UUID
	if c, ok := m.selected(); ok {
		selected = c.Tracker.ID
	}

	var b strings.Builder
	for _, section := range state.Sections {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, t := range section.Trackers {
			b.WriteString(renderCell(byID[t.ID], t.ID == selected))
			b.WriteString("\n")
		}
	}
	return docStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderCell(c query.Cell, selected bool) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}
	check := "[ ]"
	if c.Completed {
		check = "[x]"
	}
	if !c.Enabled {
		check = mutedStyle.Render(check)
	}
	title := trackerStyle(c.Tracker.ColorHex, c.Completed).Render(c.Tracker.Title)
	days := mutedStyle.Render(fmt.Sprintf("%d days", c.Days))
	return fmt.Sprintf("%s%s %s %s  %s", cursor, check, c.Tracker.Emoji, title, days)
}

func (m Model) viewForm() string {
	return docStyle.Render(m.form.View())
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.toDelete != nil {
		title = m.toDelete.Title
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its records?", title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStats() string {
	if !m.hasStats {
		return docStyle.Render("No statistics yet.\nComplete a tracker to get started.")
	}
	lines := []string{sectionStyle.Render("Statistics")}
	for _, metric := range m.summary.Metrics() {
		lines = append(lines, metric.String())
	}
	lines = append(lines, "", mutedStyle.Render("press any key to go back"))
	return docStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return warningStyle.Render("⚠ " + m.errMsg)
	case m.message != "":
		return mutedStyle.Render(m.message)
	}
	return ""
}
