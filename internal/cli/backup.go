package cli

import (
	"fmt"
	"path/filepath"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	path, err := ctx.Backups.Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created backup %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Backups.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	for _, b := range backups {
		fmt.Printf("%s  %s  %d bytes\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), b.Size)
	}
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" optional:"" help:"Backup filename to restore (default: newest)."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	target := c.Backup
	if target == "" {
		backups, err := ctx.Backups.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return fmt.Errorf("no backups to restore")
		}
		target = backups[0].Path
	} else if filepath.Base(target) == target {
		target = filepath.Join(ctx.Backups.BackupDir(), target)
	}

	if err := ctx.Backups.Restore(target); err != nil {
		return err
	}
	fmt.Printf("Restored %s\n", filepath.Base(target))
	return nil
}
