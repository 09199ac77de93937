// Package commands implements the fintrack command-line interface.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"

	"github.com/google/subcommands"
)

// App carries what every command shares: streams, global flags and the way
// to open the ledger. A CLI run is short lived, so one App serves one command.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// DBPath overrides SQLITE_DB_PATH when set.
	DBPath string
	// Plain prints markdown as is instead of rendering it for the terminal.
	Plain bool

	cfg    *config.Config
	reader *bufio.Reader
}

// NewApp returns an App bound to the process standard streams.
func NewApp() *App {
	return &App{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Commands returns every fintrack subcommand, bound to app.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&addUserCmd{app: app},
		&removeUserCmd{app: app},
		&addTransactionCmd{app: app},
		&viewTransactionsCmd{app: app},
		&monthlySummaryCmd{app: app},
		&removeTransactionCmd{app: app},
		&schemaCmd{app: app},
	}
}

// Register adds the commands to c, grouped the way help lists them.
func Register(c *subcommands.Commander, app *App) {
	for _, cmd := range Commands(app) {
		group := "ledger"
		switch cmd.Name() {
		case "add-user", "remove-user":
			group = "users"
		case "schema":
			group = "maintenance"
		}
		c.Register(cmd, group)
	}
}

// config loads and validates the configuration once per run.
func (a *App) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := cli.LoadAndValidateConfig(a.DBPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// ledger opens the ledger service. The caller must Close it.
func (a *App) ledger(ctx context.Context) (*services.LedgerService, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return cli.OpenLedger(applog.FromContext(ctx), cfg)
}

func (a *App) currency() string {
	if a.cfg == nil {
		return "EUR"
	}
	return a.cfg.Currency
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// report prints the outcome of an operation and maps it to an exit status.
func (a *App) report(r services.Result) subcommands.ExitStatus {
	if !r.OK {
		fmt.Fprintln(a.Err, r.Message)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.Out, r.Message)
	return subcommands.ExitSuccess
}

// findUser resolves email to a user, printing "User not found!" when absent.
func (a *App) findUser(ctx context.Context, svc *services.LedgerService, email string) (*core.User, subcommands.ExitStatus) {
	u, err := svc.GetUserByEmail(ctx, email)
	if err != nil {
		fmt.Fprintf(a.Err, "Error looking up user: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	if u == nil {
		fmt.Fprintln(a.Err, "User not found!")
		return nil, subcommands.ExitFailure
	}
	return u, subcommands.ExitSuccess
}

// openOrFail opens the ledger, printing the failure when it cannot.
func (a *App) openOrFail(ctx context.Context) (*services.LedgerService, bool) {
	svc, err := a.ledger(ctx)
	if err != nil {
		fmt.Fprintf(a.Err, "Error opening ledger: %v\n", err)
		return nil, false
	}
	return svc, true
}

func exitForInput(err error) subcommands.ExitStatus {
	if errors.Is(err, errNoInput) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitUsageError
}
