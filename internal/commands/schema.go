package commands

import (
	"context"
	"flag"
	"fmt"

	applog "fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/google/subcommands"
)

type schemaCmd struct {
	app *App
	up  bool
}

func (*schemaCmd) Name() string     { return "schema" }
func (*schemaCmd) Synopsis() string { return "show or upgrade the database schema version" }
func (*schemaCmd) Usage() string {
	return `fintrack schema [-up]

  Prints the database file and its schema version. With -up, applies
  pending migrations first. Other commands migrate automatically.
`
}

func (c *schemaCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.up, "up", false, "Apply pending migrations.")
}

func (c *schemaCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	cfg, err := a.config()
	if err != nil {
		fmt.Fprintf(a.Err, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.up {
		if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
			fmt.Fprintf(a.Err, "Error migrating %q: %v\n", cfg.SQLiteDBPath, err)
			return subcommands.ExitFailure
		}
		applog.FromContext(ctx).InfoContext(ctx, "Schema migrated",
			applog.FieldOperation, applog.OpMigrate,
			applog.FieldDBPath, cfg.SQLiteDBPath)
	}

	version, dirty, err := storage.SchemaVersion(cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintf(a.Err, "Error reading schema version of %q: %v\n", cfg.SQLiteDBPath, err)
		return subcommands.ExitFailure
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	if version == 0 {
		state = "empty"
	}
	a.printf("database: %s\nschema version: %d (%s)\n", cfg.SQLiteDBPath, version, state)
	return subcommands.ExitSuccess
}
