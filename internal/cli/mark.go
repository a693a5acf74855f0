package cli

import (
	"fmt"

	"github.com/julianstephens/streaks/internal/models"
)

type MarkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day to toggle in YYYY-MM-DD format (default: today)." default:""`
}

func (c *MarkCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := validDay(ctx, c.Date)
	if err != nil {
		return err
	}

	status, err := ctx.Toggler.Toggle(habit.ID, day, ctx.Now())
	if err != nil {
		return err
	}

	switch status {
	case models.StatusComplete:
		fmt.Printf("%s marked complete for %s\n", habit.Name, day)
	default:
		fmt.Printf("%s marked incomplete for %s\n", habit.Name, day)
	}
	return nil
}
