// Package cli implements the streaks subcommands.
package cli

import (
	"strconv"
	"time"

	"github.com/julianstephens/streaks/internal/backup"
	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/heatmap"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/query"
	"github.com/julianstephens/streaks/internal/render"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/toggle"
)

// Context carries the shared services into command Run methods.
type Context struct {
	Store   storage.Provider
	Cache   *heatmap.Cache
	Queries *query.Service
	Toggler *toggle.Coordinator
	Printer *render.Printer
	Backups *backup.Manager

	// Clock is the injected time source; commands never call time.Now
	// directly so tests can pin the day.
	Clock func() time.Time
}

// Now returns the current instant in the configured timezone. An unset or
// unloadable timezone falls back to the system zone.
func (c *Context) Now() time.Time {
	now := c.Clock()

	tz, ok, err := c.Store.GetSetting("timezone")
	if err != nil || !ok || tz == "" || tz == constants.DefaultTimezone {
		return now
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Warn("ignoring invalid timezone setting", "timezone", tz, "error", err)
		return now
	}
	return now.In(loc)
}

// resolveHabit accepts either a numeric habit id or a habit name.
func (c *Context) resolveHabit(ref string) (models.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return c.Store.GetHabit(id)
	}
	return c.Store.GetHabitByName(ref)
}
