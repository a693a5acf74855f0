package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit a habit."`
	Reorder   HabitReorderCmd   `cmd:"" help:"Change a habit's position in listings."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit, keeping its history."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Bring an archived habit back."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Permanently delete a habit and its history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." default:""`
	Icon        string `help:"Optional icon glyph." default:""`
	Color       string `help:"Optional hex color." default:""`
	Frequency   string `help:"Frequency tag: daily, weekly, monthly, or custom." default:"daily"`
	Target      int    `help:"Optional completion target." default:"0"`
}

func (c *HabitAddCmd) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if !constants.IsValidFrequency(c.Frequency) {
		return fmt.Errorf("invalid frequency %q (want one of %v)", c.Frequency, constants.HabitFrequencies)
	}
	return nil
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit %q already exists", c.Name)
	}

	id, err := ctx.Store.AddHabit(models.Habit{
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Frequency:   c.Frequency,
		Target:      c.Target,
		Active:      true,
		CreatedAt:   ctx.Now(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added habit %q (id %d)\n", c.Name, id)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}
	ctx.Printer.HabitList(habits)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Icon        *string `help:"New icon glyph."`
	Color       *string `help:"New hex color."`
	Frequency   *string `help:"New frequency tag."`
	Target      *int    `help:"New completion target."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Name != nil {
		habit.Name = *c.Name
	}
	if c.Description != nil {
		habit.Description = *c.Description
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
	}
	if c.Color != nil {
		habit.Color = *c.Color
	}
	if c.Frequency != nil {
		if !constants.IsValidFrequency(*c.Frequency) {
			return fmt.Errorf("invalid frequency %q (want one of %v)", *c.Frequency, constants.HabitFrequencies)
		}
		habit.Frequency = *c.Frequency
	}
	if c.Target != nil {
		habit.Target = *c.Target
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit %d\n", habit.ID)
	return nil
}

type HabitReorderCmd struct {
	Habit    string `arg:"" help:"Habit id or name."`
	Position int    `arg:"" help:"New position key; lower sorts first."`
}

func (c *HabitReorderCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	return ctx.Store.SetHabitOrder(habit.ID, c.Position)
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived %q; its history is kept\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}

	// Catch the cache up on the weeks that passed while archived.
	if _, err := ctx.Cache.RebuildForHabit(habit, ctx.Now()); err != nil {
		return err
	}
	fmt.Printf("Unarchived %q\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Force {
		count, err := ctx.Store.CountEntries(habit.ID)
		if err != nil {
			return err
		}

		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q and its %d tracked days?", habit.Name, count)).
				Description("This cannot be undone. Archiving keeps the history instead.").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			return errors.Validationf("delete cancelled")
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %q\n", habit.Name)
	return nil
}

// validDay parses a --date flag, defaulting empty to the current day.
func validDay(ctx *Context, flag string) (string, error) {
	if flag == "" {
		return period.Resolve(ctx.Now()).Date, nil
	}
	if _, err := period.ParseDay(flag); err != nil {
		return "", err
	}
	return flag, nil
}
