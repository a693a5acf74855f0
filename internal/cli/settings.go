package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
)

type SettingsCmd struct {
	Get SettingsGetCmd `cmd:"" help:"Show current settings."`
	Set SettingsSetCmd `cmd:"" help:"Change a setting."`
}

type SettingsGetCmd struct{}

func (c *SettingsGetCmd) Run(ctx *Context) error {
	tz, ok, err := ctx.Store.GetSetting("timezone")
	if err != nil {
		return err
	}
	if !ok || tz == "" {
		tz = constants.DefaultTimezone
	}
	fmt.Printf("timezone: %s\n", tz)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (currently: timezone)."`
	Value string `arg:"" help:"New value. For timezone, an IANA name like Europe/Berlin or Local."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	switch c.Key {
	case "timezone":
		if c.Value != constants.DefaultTimezone {
			if _, err := time.LoadLocation(c.Value); err != nil {
				return fmt.Errorf("unknown timezone %q: %w", c.Value, err)
			}
		}
		if err := ctx.Store.SetSetting("timezone", c.Value); err != nil {
			return err
		}
		fmt.Printf("timezone set to %s\n", c.Value)
		return nil
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}
}
