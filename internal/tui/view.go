package tui

import (
	"strings"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/query"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == stateForm && m.form != nil {
		return docStyle.Render(m.form.View())
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.state {
	case stateToday:
		b.WriteString(m.todayList.View())
	case stateWeek:
		b.WriteString(m.renderWeek())
	case stateMonth:
		b.WriteString(m.renderMonth())
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+m.errMsg))
	}

	b.WriteString("\n" + m.help.View(m))
	return docStyle.Render(b.String())
}

func (m Model) renderTabs() string {
	tabs := []struct {
		label string
		state sessionState
	}{
		{"Today", stateToday},
		{"Week", stateWeek},
		{"Month", stateMonth},
	}

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		style := inactiveTabStyle
		if tab.state == m.state {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(tab.label))
	}
	return strings.Join(parts, " ")
}

func glyph(status models.Status, future bool) string {
	if future {
		return " "
	}
	switch status {
	case models.StatusComplete:
		return completeStyle.Render("x")
	case models.StatusIncomplete:
		return incompleteStyle.Render("-")
	default:
		return unsetStyle.Render("·")
	}
}

func (m Model) renderWeek() string {
	if len(m.weekRows) == 0 {
		return "\n  No habits yet.\n"
	}

	width := labelWidth(m.weekRows)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+2))
	b.WriteString(unsetStyle.Render("M T W T F S S"))
	b.WriteString("\n")

	for _, row := range m.weekRows {
		b.WriteString(labelStyle.Render(pad(row.Habit.Name, width)))
		b.WriteString("  ")
		for i, cell := range row.Cells {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(glyph(cell.Status, cell.Future))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMonth() string {
	if len(m.monthRows) == 0 {
		return "\n  No habits yet.\n"
	}

	var b strings.Builder
	for _, row := range m.monthRows {
		b.WriteString(labelStyle.Render(row.Habit.Name))
		b.WriteString("\n")

		offset := 0
		if len(row.Cells) > 0 {
			if idx, err := period.DayIndex(row.Cells[0].Date); err == nil {
				offset = idx
			}
		}

		col := 0
		b.WriteString("  ")
		for ; col < offset; col++ {
			b.WriteString("  ")
		}
		for _, cell := range row.Cells {
			b.WriteString(glyph(cell.Status, cell.Future))
			b.WriteString(" ")
			col++
			if col == 7 {
				b.WriteString("\n  ")
				col = 0
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func labelWidth(rows []query.HabitCells) int {
	width := 0
	for _, row := range rows {
		if len(row.Habit.Name) > width {
			width = len(row.Habit.Name)
		}
	}
	return width
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
