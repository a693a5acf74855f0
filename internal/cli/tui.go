package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Heal any divergence left by a previous crash before showing data.
	if _, err := ctx.Cache.RebuildAll(ctx.Now()); err != nil {
		return err
	}

	model, err := tui.NewModel(ctx.Store, ctx.Queries, ctx.Toggler, ctx.Now)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
