package commands

import (
	"context"
	"flag"
	"fmt"

	"fintrack/internal/services"

	"github.com/google/subcommands"
)

type addUserCmd struct {
	app   *App
	name  string
	email string
}

func (*addUserCmd) Name() string     { return "add-user" }
func (*addUserCmd) Synopsis() string { return "create a new user profile" }
func (*addUserCmd) Usage() string {
	return `fintrack add-user [-name <name>] [-email <email>]

  Creates a user profile. Missing values are asked for on the terminal.
  The email identifies the profile in every other command and must be unique.
`
}

func (c *addUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Your full name.")
	f.StringVar(&c.email, "email", "", "Your email address.")
}

func (c *addUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if err := a.require(&c.name, "Your name"); err != nil {
		fmt.Fprintf(a.Err, "Error reading name: %v\n", err)
		return exitForInput(err)
	}
	if err := a.require(&c.email, "Your email"); err != nil {
		fmt.Fprintf(a.Err, "Error reading email: %v\n", err)
		return exitForInput(err)
	}

	svc, ok := a.openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer svc.Close()

	u, err := svc.CreateUser(ctx, c.name, c.email)
	return a.report(services.ResultOf(err, "User %s created successfully!", u.Name))
}

type removeUserCmd struct {
	app   *App
	email string
	yes   bool
}

func (*removeUserCmd) Name() string     { return "remove-user" }
func (*removeUserCmd) Synopsis() string { return "delete a user profile and all its transactions" }
func (*removeUserCmd) Usage() string {
	return `fintrack remove-user [-email <email>] [-yes]

  Deletes the profile registered under the email together with every
  transaction it owns. Asks for confirmation unless -yes is given.
`
}

func (c *removeUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Your registered email.")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *removeUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if err := a.require(&c.email, "Your email"); err != nil {
		fmt.Fprintf(a.Err, "Error reading email: %v\n", err)
		return exitForInput(err)
	}

	svc, ok := a.openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer svc.Close()

	user, status := a.findUser(ctx, svc, c.email)
	if user == nil {
		return status
	}

	if !c.yes {
		n, err := svc.CountTransactions(ctx, user.ID)
		if err != nil {
			fmt.Fprintf(a.Err, "Error counting transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		ok, err := a.confirm(fmt.Sprintf("Are you sure you want to delete %s's profile and ALL %d transactions?", user.Name, n))
		if err != nil {
			fmt.Fprintf(a.Err, "Error reading confirmation: %v\n", err)
			return subcommands.ExitFailure
		}
		if !ok {
			a.printf("Operation cancelled.\n")
			return subcommands.ExitSuccess
		}
	}

	err := svc.DeleteUser(ctx, user.ID)
	return a.report(services.ResultOf(err, "User and all associated transactions deleted successfully"))
}
