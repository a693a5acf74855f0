package cli

import (
	"fmt"
	"os"
)

type InitCmd struct {
	Force bool `help:"Reinitialize even if the database already exists."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("storage already initialized at %s (use --force to reinitialize)", path)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	fmt.Printf("Initialized streaks storage at %s\n", path)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	// Init is idempotent: applying migrations against a current schema is
	// a no-op.
	return ctx.Store.Init()
}
