package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/BolkaZ/Tracker/internal/errors"
	"github.com/BolkaZ/Tracker/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		logger.Debug("Store changed", "op", msg.change.Op, "entities", msg.change.Entities)
		m.refresh()
		if m.state == StateStats {
			m.loadStats()
		}
		return m, nil
	}

	switch m.state {
	case StateSearch:
		return m.updateSearch(msg)
	case StateAddTracker:
		return m.updateAddTracker(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateStats:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.state = StateBrowse
		}
		return m, nil
	}
	return m.updateBrowse(msg)
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.message, m.errMsg = "", ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(keyMsg, m.keys.PrevDay):
		m.browser.ShiftDate(-1)
		m.refresh()

	case key.Matches(keyMsg, m.keys.NextDay):
		m.browser.ShiftDate(1)
		m.refresh()

	case key.Matches(keyMsg, m.keys.Today):
		m.browser.SetDate(m.now())
		m.refresh()

	case key.Matches(keyMsg, m.keys.Up):
		m.cursor--
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Down):
		m.cursor++
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Filter):
		m.browser.SelectFilter(m.browser.Filter().Next())
		m.refresh()

	case key.Matches(keyMsg, m.keys.Search):
		m.state = StateSearch
		return m, m.search.Focus()

	case key.Matches(keyMsg, m.keys.Toggle):
		cell, ok := m.selected()
		if !ok {
			break
		}
		done, err := m.browser.Toggle(m.ctx, cell.Tracker.ID)
		if err != nil {
			m.setError(err)
			break
		}
		if done {
			m.message = fmt.Sprintf("%s %s done", cell.Tracker.Emoji, cell.Tracker.Title)
		}
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Pin):
		cell, ok := m.selected()
		if !ok {
			break
		}
		if err := m.stores.Trackers.SetPinned(m.ctx, cell.Tracker.ID, !cell.Tracker.IsPinned); err != nil {
			m.setError(err)
		}

	case key.Matches(keyMsg, m.keys.Add):
		category := ""
		if cell, ok := m.selected(); ok {
			category, _, _ = m.stores.Trackers.CategoryTitle(m.ctx, cell.Tracker.ID)
		}
		m.trackerForm = newTrackerFormModel(category)
		m.form = NewTrackerForm(m.trackerForm)
		m.state = StateAddTracker
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.Delete):
		cell, ok := m.selected()
		if !ok {
			break
		}
		t := cell.Tracker
		m.toDelete = &t
		m.state = StateConfirmDelete

	case key.Matches(keyMsg, m.keys.Stats):
		m.loadStats()
		m.state = StateStats
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.browser.SetSearch("")
			m.search.Blur()
			m.state = StateBrowse
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			m.search.Blur()
			m.state = StateBrowse
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.browser.Search() {
		m.browser.SetSearch(m.search.Value())
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateAddTracker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.createTracker(); err != nil {
			// stay in the form so the input can be corrected
			m.setError(err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.message = fmt.Sprintf("Added %q", m.trackerForm.Title)
		m.state = StateBrowse
	case huh.StateAborted:
		m.state = StateBrowse
	}
	return m, cmd
}

func (m *Model) createTracker() error {
	if _, err := m.stores.Categories.Ensure(m.ctx, m.trackerForm.Category); err != nil {
		return err
	}
	_, err := m.stores.Trackers.Create(m.ctx, m.trackerForm.Tracker(), m.trackerForm.Category)
	return err
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if m.toDelete != nil {
			if err := m.stores.Trackers.Delete(m.ctx, m.toDelete.ID); err != nil {
				m.setError(err)
			} else {
				m.message = fmt.Sprintf("Deleted %q", m.toDelete.Title)
			}
		}
		m.toDelete = nil
		m.state = StateBrowse
	case "n", "N", "esc", "q":
		m.toDelete = nil
		m.state = StateBrowse
	}
	return m, nil
}

func (m *Model) setError(err error) {
	logger.Debug("UI action failed", "error", err)
	m.errMsg = apperrors.Message(err)
}
