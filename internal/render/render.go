// Package render prints the period views as terminal tables.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/query"
)

type Printer struct {
	ShowIDs bool
}

var (
	complete   = color.New(color.FgGreen, color.Bold)
	incomplete = color.New(color.FgRed)
	unset      = color.New(color.Faint)
	heading    = color.New(color.Bold, color.Underline)
	dim        = color.New(color.Faint, color.Italic)
)

// Glyph renders one day cell. Future and outside-period cells are blank so
// the eye only lands on days that carry information.
func Glyph(status models.Status, future bool) string {
	if future {
		return " "
	}
	switch status {
	case models.StatusComplete:
		return complete.Sprint("x")
	case models.StatusIncomplete:
		return incomplete.Sprint("-")
	default:
		return unset.Sprint("·")
	}
}

func (p *Printer) Title(title string) {
	_, _ = fmt.Fprintln(color.Output, heading.Sprint(title))
}

func (p *Printer) none() {
	_, _ = fmt.Fprintln(color.Output, dim.Sprint(" no habits yet, add one with 'streaks habit add'"))
}

// Today prints one line per habit with its current-day state.
func (p *Printer) Today(rows []query.HabitDay, date string) {
	p.Title("Today " + dim.Sprint(date))
	if len(rows) == 0 {
		p.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, row := range rows {
		cells := []interface{}{}
		if p.ShowIDs {
			cells = append(cells, dim.Sprintf("%d", row.Habit.ID))
		}
		cells = append(cells, Glyph(row.Status, false), habitLabel(row.Habit))
		tbl.AddRow(cells...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Week prints a Monday-to-Sunday strip per habit.
func (p *Printer) Week(rows []query.HabitCells, info period.Info) {
	p.Title("Week " + dim.Sprintf("%s to %s", info.WeekStart, info.WeekEnd))
	if len(rows) == 0 {
		p.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", unset.Sprint("M T W T F S S"))
	for _, row := range rows {
		tbl.AddRow(habitLabel(row.Habit), cellStrip(row.Cells))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Month prints a week-per-line grid for each habit. Leading and trailing
// slots belonging to adjacent months render as blanks.
func (p *Printer) Month(rows []query.HabitCells, info period.Info) {
	p.Title("Month " + dim.Sprint(info.MonthStart[:7]))
	if len(rows) == 0 {
		p.none()
		return
	}

	for _, row := range rows {
		_, _ = fmt.Fprintln(color.Output, habitLabel(row.Habit))
		for _, line := range monthGrid(row.Cells) {
			_, _ = fmt.Fprintln(color.Output, "  "+line)
		}
	}
}

// Overall prints each habit's year-to-date weeks, one strip per week.
func (p *Printer) Overall(rows []query.HabitWeeks) {
	p.Title("Overall")
	if len(rows) == 0 {
		p.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, row := range rows {
		for i, week := range row.Weeks {
			label := ""
			if i == 0 {
				label = habitLabel(row.Habit)
			}
			tbl.AddRow(label, dim.Sprint(week.WeekStart), weekStrip(week.Statuses))
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// HabitList prints the habit management table.
func (p *Printer) HabitList(habits []models.Habit) {
	if len(habits) == 0 {
		p.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(heading.Sprint("ID"), heading.Sprint("Name"), heading.Sprint("Frequency"), heading.Sprint("Target"), heading.Sprint("State"))
	for _, h := range habits {
		state := "active"
		if !h.Active {
			state = dim.Sprint("archived")
		}
		tbl.AddRow(h.ID, habitLabel(h), h.Frequency, h.Target, state)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func habitLabel(h models.Habit) string {
	if h.Icon != "" {
		return h.Icon + " " + h.Name
	}
	return h.Name
}

func cellStrip(cells []query.Cell) string {
	glyphs := make([]string, 0, len(cells))
	for _, c := range cells {
		glyphs = append(glyphs, Glyph(c.Status, c.Future))
	}
	return strings.Join(glyphs, " ")
}

func weekStrip(statuses models.WeekStatuses) string {
	glyphs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		glyphs = append(glyphs, Glyph(s, false))
	}
	return strings.Join(glyphs, " ")
}

// monthGrid lays cropped month cells out as Monday-start week lines, padding
// the first and last line where the month begins or ends midweek.
func monthGrid(cells []query.Cell) []string {
	if len(cells) == 0 {
		return nil
	}

	offset, err := period.DayIndex(cells[0].Date)
	if err != nil {
		offset = 0
	}

	var lines []string
	line := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		line = append(line, " ")
	}
	for _, c := range cells {
		line = append(line, Glyph(c.Status, c.Future))
		if len(line) == 7 {
			lines = append(lines, strings.Join(line, " "))
			line = line[:0]
		}
	}
	if len(line) > 0 {
		for len(line) < 7 {
			line = append(line, " ")
		}
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}
