package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/BolkaZ/Tracker/internal/cli"
	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/errors"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/storage"
)

// app is the command line grammar.
type app struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite file path, PostgreSQL connection string or 'keyring'. PostgreSQL passwords must NOT be embedded; use TRACKER_DB_CONNECTION or the OS keyring instead." env:"TRACKER_CONFIG" default:"${default_config}"`
	Timezone string `help:"Timezone for day boundaries, overriding the stored setting." env:"TRACKER_TZ"`
	Debug    bool   `help:"Log debug output to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize tracker storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate cli.ValidateCmd `cmd:"" help:"Check trackers for problems."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	View     cli.ViewCmd     `cmd:"" help:"Show the trackers of a day."`
	Done     cli.DoneCmd     `cmd:"" help:"Mark a tracker completed."`
	Undo     cli.UndoCmd     `cmd:"" help:"Remove a completion."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show statistics."`
	Inspect  cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Category struct {
		Add    cli.CategoryAddCmd    `cmd:"" help:"Add a category."`
		Rename cli.CategoryRenameCmd `cmd:"" help:"Rename a category."`
		Delete cli.CategoryDeleteCmd `cmd:"" help:"Delete an empty category."`
		List   cli.CategoryListCmd   `cmd:"" help:"List categories."`
	} `cmd:"" help:"Manage categories."`
	Tracker struct {
		Add    cli.TrackerAddCmd    `cmd:"" help:"Add a habit or event."`
		Edit   cli.TrackerEditCmd   `cmd:"" help:"Edit a tracker."`
		Pin    cli.TrackerPinCmd    `cmd:"" help:"Pin a tracker."`
		Unpin  cli.TrackerUnpinCmd  `cmd:"" help:"Unpin a tracker."`
		Delete cli.TrackerDeleteCmd `cmd:"" help:"Delete a tracker and its records."`
		List   cli.TrackerListCmd   `cmd:"" help:"List trackers."`
	} `cmd:"" help:"Manage trackers."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings struct {
		SetConnection    cli.ConfigSetConnectionCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		ShowConnection   cli.ConfigShowConnectionCmd   `cmd:"" help:"Show the stored connection string with the password masked."`
		DeleteConnection cli.ConfigDeleteConnectionCmd `cmd:"" help:"Delete the stored connection string."`
		Timezone         cli.ConfigTimezoneCmd         `cmd:"" help:"Show or set the timezone day boundaries use."`
	} `cmd:"" name:"config" help:"Manage configuration."`
}

func newParser(a *app) (*kong.Kong, error) {
	return kong.New(a,
		kong.Name(constants.AppName),
		kong.Description("Habit and event tracker with a daily completion log"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)
}

func main() {
	var a app
	parser, err := newParser(&a)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	target, err := cli.ResolveTarget(a.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: a.Debug, ConfigDir: cli.ConfigDir(target)}); err != nil {
		// logging is best effort
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []storage.Option
	if a.Timezone != "" {
		opts = append(opts, storage.WithTimezone(a.Timezone))
	}
	db := storage.New(target, opts...)
	appCtx := cli.NewContext(ctx, db)

	err = kctx.Run(appCtx)
	if closeErr := db.Close(); closeErr != nil {
		logger.Warn("Failed to close database", "error", closeErr)
	}
	if err != nil {
		stop()
		errors.Fatal(err)
	}
}
