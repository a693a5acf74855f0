package cli

import (
	"fmt"

	"github.com/julianstephens/streaks/internal/period"
)

type RebuildCmd struct {
	Habit string `help:"Rebuild only this habit (id or name)." default:""`
	From  string `help:"First week to rebuild (any day of it, YYYY-MM-DD)." default:""`
	To    string `help:"Last week to rebuild (any day of it, YYYY-MM-DD)." default:""`
}

func (c *RebuildCmd) Run(ctx *Context) error {
	now := ctx.Now()

	if c.Habit == "" {
		if c.From != "" || c.To != "" {
			return fmt.Errorf("--from/--to require --habit")
		}
		rebuilt, err := ctx.Cache.RebuildAll(now)
		if err != nil {
			return err
		}
		fmt.Printf("Rebuilt %d heatmap week(s)\n", rebuilt)
		return nil
	}

	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.From == "" && c.To == "" {
		rebuilt, err := ctx.Cache.RebuildForHabit(habit, now)
		if err != nil {
			return err
		}
		fmt.Printf("Rebuilt %d heatmap week(s) for %q\n", rebuilt, habit.Name)
		return nil
	}
	if c.From == "" || c.To == "" {
		return fmt.Errorf("--from and --to must be given together")
	}

	fromWeek, err := period.WeekStartOf(c.From)
	if err != nil {
		return err
	}
	toWeek, err := period.WeekStartOf(c.To)
	if err != nil {
		return err
	}

	rebuilt, err := ctx.Cache.RebuildRangeForHabit(habit.ID, fromWeek, toWeek, now)
	if err != nil {
		return err
	}
	fmt.Printf("Rebuilt %d heatmap week(s) for %q\n", rebuilt, habit.Name)
	return nil
}
