// Package tui is the interactive day view built on bubbletea.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/query"
	"github.com/BolkaZ/Tracker/internal/stats"
	"github.com/BolkaZ/Tracker/internal/storage"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateSearch
	StateAddTracker
	StateConfirmDelete
	StateStats
)

// Stores are the dependencies of the UI.
type Stores struct {
	DB         *storage.DB
	Categories *storage.CategoryStore
	Trackers   *storage.TrackerStore
	Records    *storage.RecordStore
}

// storeChangedMsg is delivered for every committed store mutation.
type storeChangedMsg struct {
	change storage.Change
}

type Model struct {
	ctx     context.Context
	stores  Stores
	browser *query.Browser
	now     func() time.Time

	state   SessionState
	keys    KeyMap
	help    help.Model
	search  textinput.Model
	cursor  int
	message string
	errMsg  string

	form        *huh.Form
	trackerForm *TrackerFormModel
	toDelete    *models.Tracker
	summary     stats.Summary
	hasStats    bool

	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, stores Stores) Model {
	ti := textinput.New()
	ti.Placeholder = "Search trackers"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return Model{
		ctx:     ctx,
		stores:  stores,
		browser: query.NewBrowser(stores.Trackers, stores.Records, stores.DB.Location(), stores.DB.Now),
		now:     stores.DB.Now,
		state:   StateBrowse,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		search:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return storeChangedMsg{} }
}

// Run starts the program and feeds store notifications into it.
func Run(ctx context.Context, stores Stores, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(ctx, stores), opts...)

	// Send blocks until the event loop receives the message, and mutations
	// made from Update notify on the event loop goroutine itself.
	unsubscribe := stores.DB.OnChange(func(c storage.Change) {
		go p.Send(storeChangedMsg{change: c})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m *Model) refresh() {
	if _, err := m.browser.Refresh(m.ctx); err != nil {
		m.setError(err)
		return
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.browser.Cells())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (query.Cell, bool) {
	cells := m.browser.Cells()
	if m.cursor < 0 || m.cursor >= len(cells) {
		return query.Cell{}, false
	}
	return cells[m.cursor], true
}

func (m *Model) loadStats() {
	records, err := m.stores.Records.List(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.summary, m.hasStats = stats.Calculate(records, m.browser.Location())
}
