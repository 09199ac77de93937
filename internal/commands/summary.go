package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/core"

	"github.com/google/subcommands"
)

type monthlySummaryCmd struct {
	app   *App
	email string
	year  int
	month int
}

func (*monthlySummaryCmd) Name() string     { return "monthly-summary" }
func (*monthlySummaryCmd) Synopsis() string { return "show income, expenses and balance of a month" }
func (*monthlySummaryCmd) Usage() string {
	return `fintrack monthly-summary [-email <email>] [-year <year>] [-month <1-12>]

  Totals the user's income and expenses dated inside the calendar month
  and shows the balance.
`
}

func (c *monthlySummaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Your registered email.")
	f.IntVar(&c.year, "year", 0, "Year of the summary.")
	f.IntVar(&c.month, "month", 0, "Month of the summary (1-12).")
}

// askInt prompts for an integer when *v is unset, offering def as the default answer.
func (a *App) askInt(v *int, label string, def int) error {
	if *v != 0 {
		return nil
	}
	raw, err := a.prompt(label, strconv.Itoa(def))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", label, raw)
	}
	*v = n
	return nil
}

func (c *monthlySummaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if err := a.require(&c.email, "Your email"); err != nil {
		fmt.Fprintf(a.Err, "Error reading email: %v\n", err)
		return exitForInput(err)
	}

	now := time.Now()
	if err := a.askInt(&c.year, "Year", now.Year()); err != nil {
		fmt.Fprintf(a.Err, "Error reading year: %v\n", err)
		return exitForInput(err)
	}
	if err := a.askInt(&c.month, "Month (1-12)", int(now.Month())); err != nil {
		fmt.Fprintf(a.Err, "Error reading month: %v\n", err)
		return exitForInput(err)
	}
	if err := core.ValidateMonth(c.month); err != nil {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
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

	sum, err := svc.MonthlySummary(ctx, user.ID, c.year, time.Month(c.month))
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return subcommands.ExitFailure
	}

	a.printMarkdown(renderSummary(*user, sum, a.currency()))
	return subcommands.ExitSuccess
}
