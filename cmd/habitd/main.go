package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitd/internal/cli"
	"github.com/julianstephens/habitd/internal/cli/system"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/keyring"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/storage"
	"github.com/julianstephens/habitd/internal/storage/postgres"
	"github.com/julianstephens/habitd/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded; use the OS keyring, environment variables or .pgpass instead." default:"${config_path}"`
	Server  string `help:"Address of a running habitd daemon; commands go over HTTP instead of the local database." default:""`
	Debug   bool   `help:"Enable debug logging."`

	Init   system.InitCmd   `cmd:"" help:"Initialize habitd storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Serve  cli.ServeCmd     `cmd:"" help:"Run the habitd daemon."`

	Habit cli.HabitCmd `cmd:"" help:"Manage habits."`

	Start    cli.StartCmd    `cmd:"" help:"Start a timer session."`
	Stop     cli.StopCmd     `cmd:"" help:"Stop the active session."`
	Log      cli.LogCmd      `cmd:"" help:"Record manual minutes or show a habit's log."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a manual habit done for today."`
	Freeze   cli.FreezeCmd   `cmd:"" help:"Spend a freeze to protect today."`
	Status   cli.StatusCmd   `cmd:"" help:"Show today's status."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show streaks and aggregates for a habit."`
	Watch    cli.WatchCmd    `cmd:"" help:"Live dashboard of every habit."`

	Settings cli.SettingsCmd `cmd:"" help:"Manage account settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit session and streak tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	config := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store, err := selectStore(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store:      store,
		ServerAddr: CLI.Server,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// selectStore picks the backend from the config value: a PostgreSQL
// connection string (flag or keyring) or a sqlite database path.
func selectStore(config string) (storage.Provider, error) {
	if isPostgres(config) {
		if err := postgres.ValidateConnStr(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("connection strings with embedded credentials are not allowed; store the full string with 'habitd keyring set' instead")
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	// A stored keyring connection string takes over when the config still
	// points at the default sqlite path.
	if config == expandHome(constants.DefaultConfigPath) {
		if connStr, err := keyring.GetConnectionString(); err == nil && isPostgres(connStr) {
			return postgres.New(connStr), nil
		}
	}

	return sqlite.NewStore(config), nil
}

func isPostgres(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
