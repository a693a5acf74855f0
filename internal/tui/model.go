// Package tui is the interactive terminal frontend: a tabbed view over the
// today list, the week strip, and the month grid, with toggling in place.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/query"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/toggle"
	"github.com/julianstephens/streaks/internal/tui/components/today"
)

type sessionState int

const (
	stateToday sessionState = iota
	stateWeek
	stateMonth
	stateForm
)

// HabitFormModel backs the add-habit form.
type HabitFormModel struct {
	Name      string
	Icon      string
	Frequency string
}

type Model struct {
	store   storage.Provider
	queries *query.Service
	toggler *toggle.Coordinator
	clock   func() time.Time

	state         sessionState
	previousState sessionState
	keys          KeyMap
	help          help.Model

	todayList today.Model
	weekRows  []query.HabitCells
	monthRows []query.HabitCells

	form      *huh.Form
	habitForm *HabitFormModel

	events chan toggle.Invalidation
	cancel func()

	width    int
	height   int
	errMsg   string
	quitting bool
}

func NewModel(store storage.Provider, queries *query.Service, toggler *toggle.Coordinator, clock func() time.Time) (Model, error) {
	now := clock()

	todayRows, err := queries.Today(now)
	if err != nil {
		return Model{}, err
	}
	weekRows, err := queries.Weekly(now)
	if err != nil {
		return Model{}, err
	}
	monthRows, err := queries.Monthly(now)
	if err != nil {
		return Model{}, err
	}

	events, cancel := toggler.Subscribe()

	m := Model{
		store:     store,
		queries:   queries,
		toggler:   toggler,
		clock:     clock,
		state:     stateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		todayList: today.New(todayRows, 0, 0),
		weekRows:  weekRows,
		monthRows: monthRows,
		cancel:    cancel,
	}

	// The subscription channel is receive-only; funnel it through an owned
	// channel so waitForInvalidation can hold it by value.
	owned := make(chan toggle.Invalidation)
	go func() {
		for event := range events {
			owned <- event
		}
		close(owned)
	}()
	m.events = owned

	return m, nil
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab},
		{m.keys.Refresh, m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return waitForInvalidation(m.events)
}
