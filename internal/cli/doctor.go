package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/period"
)

type DoctorCmd struct {
	Fix bool `help:"Repair problems that can be fixed automatically."`
}

type checkResult struct {
	name   string
	ok     bool
	detail string
}

func (c *DoctorCmd) Run(ctx *Context) error {
	now := ctx.Now()
	var results []checkResult

	results = append(results, c.checkDatabase(ctx))
	results = append(results, c.checkSchemaVersion(ctx))
	results = append(results, c.checkDuplicateEntries(ctx))
	results = append(results, c.checkHeatmapConsistency(ctx))
	results = append(results, c.checkConcurrentProcesses())
	results = append(results, c.checkTimezone(ctx))

	failed := 0
	for _, r := range results {
		mark := "✓"
		if !r.ok {
			mark = "✗"
			failed++
		}
		fmt.Printf("%s %s", mark, r.name)
		if r.detail != "" {
			fmt.Printf(" (%s)", r.detail)
		}
		fmt.Println()
	}

	if failed > 0 {
		if !c.Fix {
			return fmt.Errorf("%d check(s) failed; re-run with --fix to repair what can be repaired", failed)
		}
		rebuilt, err := ctx.Cache.RebuildAll(now)
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}
		fmt.Printf("Rebuilt %d heatmap week(s)\n", rebuilt)
	}
	return nil
}

func (c *DoctorCmd) checkDatabase(ctx *Context) checkResult {
	db := ctx.Store.GetDB()
	if db == nil {
		return checkResult{name: "database reachable", detail: "not loaded"}
	}
	if err := db.Ping(); err != nil {
		return checkResult{name: "database reachable", detail: err.Error()}
	}
	return checkResult{name: "database reachable", ok: true, detail: ctx.Store.GetConfigPath()}
}

func (c *DoctorCmd) checkSchemaVersion(ctx *Context) checkResult {
	type versioner interface {
		SchemaVersion() (int, error)
	}
	v, ok := ctx.Store.(versioner)
	if !ok {
		return checkResult{name: "schema version", ok: true, detail: "not applicable"}
	}
	version, err := v.SchemaVersion()
	if err != nil {
		return checkResult{name: "schema version", detail: err.Error()}
	}
	return checkResult{name: "schema version", ok: true, detail: fmt.Sprintf("%d", version)}
}

// checkDuplicateEntries guards the one-entry-per-day invariant. The unique
// index should make duplicates impossible; finding one means the schema was
// tampered with or predates the index.
func (c *DoctorCmd) checkDuplicateEntries(ctx *Context) checkResult {
	name := "one entry per habit and day"
	db := ctx.Store.GetDB()
	if db == nil {
		return checkResult{name: name, detail: "database not loaded"}
	}

	var count int
	err := db.QueryRow(`
		SELECT count(*) FROM (
			SELECT habit_id, date FROM habits_entry
			GROUP BY habit_id, date HAVING count(*) > 1
		)`).Scan(&count)
	if err != nil {
		return checkResult{name: name, detail: err.Error()}
	}
	if count > 0 {
		return checkResult{name: name, detail: fmt.Sprintf("%d duplicated (habit, day) pairs", count)}
	}
	return checkResult{name: name, ok: true}
}

func (c *DoctorCmd) checkHeatmapConsistency(ctx *Context) checkResult {
	name := "heatmap cache matches entries"

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return checkResult{name: name, detail: err.Error()}
	}

	currentWeek := period.Resolve(ctx.Now()).WeekStart
	diverged := 0
	for _, habit := range habits {
		if err := ctx.Cache.VerifyWeek(habit.ID, currentWeek); err != nil {
			if errors.IsConsistency(err) {
				diverged++
				continue
			}
			return checkResult{name: name, detail: err.Error()}
		}
	}

	if diverged > 0 {
		return checkResult{name: name, detail: fmt.Sprintf("%d habit(s) diverged this week", diverged)}
	}
	return checkResult{name: name, ok: true}
}

// checkConcurrentProcesses warns when another streaks process has the
// database open. SQLite serializes writers, but two long-lived processes
// toggling the same habit can still surprise the user.
func (c *DoctorCmd) checkConcurrentProcesses() checkResult {
	name := "no concurrent streaks processes"

	processes, err := ps.Processes()
	if err != nil {
		return checkResult{name: name, ok: true, detail: "could not enumerate processes"}
	}

	self := os.Getpid()
	binary := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
	others := 0
	for _, p := range processes {
		if p.Pid() != self && strings.TrimSuffix(p.Executable(), ".exe") == binary {
			others++
		}
	}
	if others > 0 {
		return checkResult{name: name, detail: fmt.Sprintf("%d other instance(s) running", others)}
	}
	return checkResult{name: name, ok: true}
}

func (c *DoctorCmd) checkTimezone(ctx *Context) checkResult {
	name := "timezone setting valid"

	tz, ok, err := ctx.Store.GetSetting("timezone")
	if err != nil {
		return checkResult{name: name, detail: err.Error()}
	}
	if !ok || tz == "" || tz == "Local" {
		return checkResult{name: name, ok: true, detail: "system default"}
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return checkResult{name: name, detail: fmt.Sprintf("cannot load %q", tz)}
	}
	return checkResult{name: name, ok: true, detail: tz}
}
