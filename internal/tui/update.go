package tui

import (
	stderrors "errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/query"
	"github.com/julianstephens/streaks/internal/toggle"
	"github.com/julianstephens/streaks/internal/tui/components/today"
)

var errEmptyName = stderrors.New("name is required")

type invalidationMsg toggle.Invalidation

type refreshedMsg struct {
	today []query.HabitDay
	week  []query.HabitCells
	month []query.HabitCells
}

type errorMsg struct {
	err error
}

func waitForInvalidation(events chan toggle.Invalidation) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return invalidationMsg(event)
	}
}

func (m Model) refresh() tea.Cmd {
	queries := m.queries
	now := m.clock()
	return func() tea.Msg {
		todayRows, err := queries.Today(now)
		if err != nil {
			return errorMsg{err: err}
		}
		weekRows, err := queries.Weekly(now)
		if err != nil {
			return errorMsg{err: err}
		}
		monthRows, err := queries.Monthly(now)
		if err != nil {
			return errorMsg{err: err}
		}
		return refreshedMsg{today: todayRows, week: weekRows, month: monthRows}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		frame := docStyle.GetVerticalFrameSize() + 4 // tabs + help lines
		m.todayList.SetSize(msg.Width-docStyle.GetHorizontalFrameSize(), msg.Height-frame)
		return m, nil

	case invalidationMsg:
		// Another writer changed an entry; refetch everything and re-arm
		// the listener.
		return m, tea.Batch(m.refresh(), waitForInvalidation(m.events))

	case refreshedMsg:
		m.todayList.SetRows(msg.today)
		m.weekRows = msg.week
		m.monthRows = msg.month
		m.errMsg = ""
		return m, nil

	case errorMsg:
		m.errMsg = msg.err.Error()
		return m, nil

	case today.AddHabitMsg:
		return m.openAddForm()

	case today.ToggleHabitMsg:
		toggler := m.toggler
		now := m.clock()
		date := period.Resolve(now).Date
		return m, func() tea.Msg {
			if _, err := toggler.Toggle(msg.ID, date, now); err != nil {
				return errorMsg{err: err}
			}
			// The invalidation listener picks up the refresh.
			return nil
		}

	case today.ArchiveHabitMsg:
		store := m.store
		cmd := func() tea.Msg {
			if err := store.ArchiveHabit(msg.ID); err != nil {
				return errorMsg{err: err}
			}
			return nil
		}
		return m, tea.Sequence(cmd, m.refresh())

	case tea.KeyMsg:
		if m.state == stateForm {
			return m.updateForm(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = nextState(m.state, 1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = nextState(m.state, -1)
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		}
	}

	if m.state == stateForm {
		return m.updateForm(msg)
	}
	if m.state == stateToday {
		var cmd tea.Cmd
		m.todayList, cmd = m.todayList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func nextState(state sessionState, dir int) sessionState {
	views := []sessionState{stateToday, stateWeek, stateMonth}
	for i, s := range views {
		if s == state {
			return views[(i+dir+len(views))%len(views)]
		}
	}
	return stateToday
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	m.habitForm = &HabitFormModel{Frequency: constants.DefaultHabitFrequency}

	options := make([]huh.Option[string], 0, len(constants.HabitFrequencies))
	for _, f := range constants.HabitFrequencies {
		options = append(options, huh.NewOption(f, f))
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&m.habitForm.Name).
			Validate(func(s string) error {
				if s == "" {
					return errEmptyName
				}
				return nil
			}),
		huh.NewInput().
			Title("Icon (optional)").
			Value(&m.habitForm.Icon),
		huh.NewSelect[string]().
			Title("Frequency").
			Options(options...).
			Value(&m.habitForm.Frequency),
	))

	m.previousState = m.state
	m.state = stateForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		store := m.store
		habit := models.Habit{
			Name:      m.habitForm.Name,
			Icon:      m.habitForm.Icon,
			Frequency: m.habitForm.Frequency,
			Active:    true,
			CreatedAt: m.clock(),
		}
		m.state = m.previousState
		m.form = nil

		add := func() tea.Msg {
			if _, err := store.AddHabit(habit); err != nil {
				return errorMsg{err: err}
			}
			return nil
		}
		return m, tea.Sequence(add, m.refresh())
	}

	return m, cmd
}
