package cli

import (
	"fmt"

	"github.com/julianstephens/habitd/internal/constants"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	settings, err := ctx.GetSettings()
	if err != nil {
		return err
	}

	fmt.Printf("timezone:       %s\n", settings.Timezone)
	fmt.Printf("freeze-refill:  %s\n", settings.FreezeRefill)
	fmt.Printf("listen-addr:    %s\n", settings.ListenAddr)
	return nil
}

type SettingsSetCmd struct {
	Timezone     string `help:"IANA timezone for day boundaries."`
	FreezeRefill string `name:"freeze-refill" help:"Freeze refill policy: never, weekly or monthly."`
	ListenAddr   string `name:"listen-addr" help:"Default daemon listen address."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	settings, err := ctx.GetSettings()
	if err != nil {
		return err
	}

	if c.Timezone != "" {
		settings.Timezone = c.Timezone
	}
	if c.FreezeRefill != "" {
		settings.FreezeRefill = constants.RefillPolicy(c.FreezeRefill)
	}
	if c.ListenAddr != "" {
		settings.ListenAddr = c.ListenAddr
	}

	if err := ctx.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Println("Settings updated.")
	return nil
}
