package main

import (
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streaks/internal/backup"
	"github.com/julianstephens/streaks/internal/cli"
	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/heatmap"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/query"
	"github.com/julianstephens/streaks/internal/render"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/toggle"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." type:"path" default:"~/.config/streaks/streaks.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`
	IDs     bool   `help:"Show habit ids in listings."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize streaks storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's habits."`
	Week     cli.WeekCmd     `cmd:"" help:"Show this week's completion strip."`
	Month    cli.MonthCmd    `cmd:"" help:"Show this month's completion grid."`
	Overall  cli.OverallCmd  `cmd:"" help:"Show the year-to-date heatmap."`
	Mark     cli.MarkCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	Rebuild  cli.RebuildCmd  `cmd:"" help:"Rebuild the heatmap cache from entries."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("streaks"),
		kong.Description("Local-first habit tracker with weekly heatmaps"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		errors.Fatal(err)
	}

	store := storage.NewSQLiteStore(CLI.Config)
	cache := heatmap.New(store)

	appCtx := &cli.Context{
		Store:   store,
		Cache:   cache,
		Queries: query.New(store, cache),
		Toggler: toggle.New(store),
		Printer: &render.Printer{ShowIDs: CLI.IDs},
		Backups: backup.NewManager(CLI.Config),
		Clock:   time.Now,
	}

	// Every command except init expects an existing, current database.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
		errors.Fatal(err)
	}
}
