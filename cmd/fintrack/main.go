package main

import (
	"context"
	"flag"
	"os"
	"path"

	"fintrack/internal/cli"
	"fintrack/internal/commands"
	applog "fintrack/internal/log"

	"github.com/google/subcommands"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	app := commands.NewApp()
	flag.StringVar(&app.DBPath, "db", "", "Path to the SQLite database file. Overrides SQLITE_DB_PATH.")
	flag.BoolVar(&app.Plain, "plain", false, "Print markdown output as is, without terminal styling.")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commands.Register(commander, app)

	flag.Parse()
	logger.Debug("Running command", applog.FieldCommand, flag.Arg(0))

	ctx, cancel := cli.SignalContext(applog.NewContext(context.Background(), logger), logger)
	status := commander.Execute(ctx)
	cancel()

	os.Exit(int(status))
}
