// Package system holds the lifecycle and diagnostics commands.
package system

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitd/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete the existing database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force && !strings.HasPrefix(path, "postgres") {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitd storage at: %s\n", path)
	return nil
}
