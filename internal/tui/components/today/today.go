// Package today is the habit list for the current day.
package today

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/query"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID int64
}

type ArchiveHabitMsg struct {
	ID int64
}

type Item struct {
	Row query.HabitDay
}

func (i Item) Title() string {
	marker := "○"
	if i.Row.Status == models.StatusComplete {
		marker = "✓"
	}
	title := marker + " " + i.Row.Habit.Name
	if i.Row.Habit.Icon != "" {
		title = marker + " " + i.Row.Habit.Icon + " " + i.Row.Habit.Name
	}
	return title
}

func (i Item) Description() string {
	if i.Row.Status == models.StatusComplete {
		return "completed today"
	}
	return "not completed today"
}

func (i Item) FilterValue() string { return i.Row.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Toggle  key.Binding
	Archive key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(rows []query.HabitDay, width, height int) Model {
	l := list.New(toItems(rows), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Archive}
	}

	return Model{list: l, keys: keys}
}

func toItems(rows []query.HabitDay) []list.Item {
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = Item{Row: row}
	}
	return items
}

// SetRows replaces the list contents, keeping the cursor position.
func (m *Model) SetRows(rows []query.HabitDay) {
	selected := m.list.Index()
	m.list.SetItems(toItems(rows))
	if selected < len(rows) {
		m.list.Select(selected)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Row.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Archive):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Row.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
