package cli

import (
	"github.com/julianstephens/streaks/internal/period"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	now := ctx.Now()
	rows, err := ctx.Queries.Today(now)
	if err != nil {
		return err
	}
	ctx.Printer.Today(rows, period.Resolve(now).Date)
	return nil
}

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *Context) error {
	now := ctx.Now()
	rows, err := ctx.Queries.Weekly(now)
	if err != nil {
		return err
	}
	ctx.Printer.Week(rows, period.Resolve(now))
	return nil
}

type MonthCmd struct{}

func (c *MonthCmd) Run(ctx *Context) error {
	now := ctx.Now()
	rows, err := ctx.Queries.Monthly(now)
	if err != nil {
		return err
	}
	ctx.Printer.Month(rows, period.Resolve(now))
	return nil
}

type OverallCmd struct{}

func (c *OverallCmd) Run(ctx *Context) error {
	rows, err := ctx.Queries.Overall(ctx.Now())
	if err != nil {
		return err
	}
	ctx.Printer.Overall(rows)
	return nil
}
