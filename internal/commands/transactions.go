package commands

import (
	"context"
	"flag"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/services"

	"github.com/google/subcommands"
)

type addTransactionCmd struct {
	app         *App
	email       string
	amount      string
	typ         string
	category    string
	description string
	date        string
	noPrompt    bool
}

func (*addTransactionCmd) Name() string     { return "add-transaction" }
func (*addTransactionCmd) Synopsis() string { return "record an income or an expense" }
func (*addTransactionCmd) Usage() string {
	return `fintrack add-transaction [-email <email>] [-amount <amount>] [-type income|expense]
                          [-category <category>] [-description <text>] [-date YYYY-MM-DD] [-no-prompt]

  Records a transaction for the user registered under the email. Missing
  values are asked for on the terminal; description and date are optional
  and the date defaults to today. Use -no-prompt to skip the optional ones.

Usage Examples:
$ fintrack add-transaction -email alice@example.com -amount 1000 -type income -category Salary
`
}

func (c *addTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Your registered email.")
	f.StringVar(&c.amount, "amount", "", "Transaction amount, e.g. 12.50.")
	f.StringVar(&c.typ, "type", "", "Transaction type: income or expense.")
	f.StringVar(&c.category, "category", "", "Transaction category (e.g. Salary, Food).")
	f.StringVar(&c.description, "description", "", "Optional description.")
	f.StringVar(&c.date, "date", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&c.noPrompt, "no-prompt", false, "Do not ask for optional values.")
}

func (c *addTransactionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	steps := []struct {
		value    *string
		label    string
		optional bool
	}{
		{&c.email, "Your email", false},
		{&c.amount, "Amount", false},
		{&c.typ, "Type (income/expense)", false},
		{&c.category, "Category", false},
		{&c.description, "Description (optional)", true},
		{&c.date, "Date (YYYY-MM-DD, leave blank for today)", true},
	}
	for _, s := range steps {
		var err error
		if s.optional {
			err = a.optional(s.value, s.label, c.noPrompt)
		} else {
			err = a.require(s.value, s.label)
		}
		if err != nil {
			fmt.Fprintf(a.Err, "Error reading input: %v\n", err)
			return exitForInput(err)
		}
	}

	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(a.Err, "Error parsing amount: %v\n", err)
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

	tx, err := svc.CreateTransaction(ctx, core.NewTransaction{
		UserID:      user.ID,
		Amount:      amount,
		Type:        c.typ,
		Category:    c.category,
		Description: c.description,
		Date:        c.date,
	})
	return a.report(services.ResultOf(err, "Transaction %d added successfully!", tx.ID))
}

type viewTransactionsCmd struct {
	app      *App
	email    string
	typ      string
	category string
	start    string
	end      string
}

func (*viewTransactionsCmd) Name() string     { return "view-transactions" }
func (*viewTransactionsCmd) Synopsis() string { return "list transactions with optional filters" }
func (*viewTransactionsCmd) Usage() string {
	return `fintrack view-transactions [-email <email>] [-type income|expense] [-category <category>]
                            [-start YYYY-MM-DD] [-end YYYY-MM-DD]

  Lists the user's transactions ordered by date. Every filter given must
  match; start and end dates are inclusive.
`
}

func (c *viewTransactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Your registered email.")
	f.StringVar(&c.typ, "type", "", "Filter by type (income/expense).")
	f.StringVar(&c.category, "category", "", "Filter by category.")
	f.StringVar(&c.start, "start", "", "Start date (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "End date (YYYY-MM-DD).")
}

func (c *viewTransactionsCmd) filter() (core.TransactionFilter, error) {
	filter := core.TransactionFilter{Category: c.category}
	if c.typ != "" {
		t, err := core.ParseTransactionType(c.typ)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}
	if c.start != "" {
		d, err := core.ParseDate(c.start)
		if err != nil {
			return filter, fmt.Errorf("start date: %w", err)
		}
		filter.StartDate = &d
	}
	if c.end != "" {
		d, err := core.ParseDate(c.end)
		if err != nil {
			return filter, fmt.Errorf("end date: %w", err)
		}
		filter.EndDate = &d
	}
	return filter, filter.Validate()
}

func (c *viewTransactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(a.Err, "Error parsing filters: %v\n", err)
		return subcommands.ExitUsageError
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

	user, status := a.findUser(ctx, svc, c.email)
	if user == nil {
		return status
	}

	txs, err := svc.ListTransactions(ctx, user.ID, filter)
	if err != nil {
		fmt.Fprintln(a.Err, err)
		return subcommands.ExitFailure
	}
	if len(txs) == 0 {
		if filter.IsEmpty() {
			a.printf("No transactions found.\n")
		} else {
			a.printf("No transactions match the filters.\n")
		}
		return subcommands.ExitSuccess
	}

	a.printMarkdown(renderTransactions(*user, txs, a.currency()))
	return subcommands.ExitSuccess
}

type removeTransactionCmd struct {
	app   *App
	email string
	id    int64
	yes   bool
}

func (*removeTransactionCmd) Name() string     { return "remove-transaction" }
func (*removeTransactionCmd) Synopsis() string { return "delete one of your transactions" }
func (*removeTransactionCmd) Usage() string {
	return `fintrack remove-transaction [-email <email>] [-id <transaction id>] [-yes]

  Deletes a transaction owned by the user registered under the email.
  Asks for confirmation unless -yes is given.
`
}

func (c *removeTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Your registered email.")
	f.Int64Var(&c.id, "id", 0, "ID of the transaction to delete.")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation.")
}

func (c *removeTransactionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app
	if err := a.require(&c.email, "Your email"); err != nil {
		fmt.Fprintf(a.Err, "Error reading email: %v\n", err)
		return exitForInput(err)
	}
	if c.id == 0 {
		var raw string
		if err := a.require(&raw, "Transaction ID"); err != nil {
			fmt.Fprintf(a.Err, "Error reading transaction id: %v\n", err)
			return exitForInput(err)
		}
		if _, err := fmt.Sscan(raw, &c.id); err != nil {
			fmt.Fprintf(a.Err, "Error parsing transaction id %q: %v\n", raw, err)
			return subcommands.ExitUsageError
		}
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
		tx, err := svc.GetTransaction(ctx, c.id)
		if err != nil {
			fmt.Fprintln(a.Err, err)
			return subcommands.ExitFailure
		}
		if tx.UserID != user.ID {
			fmt.Fprintln(a.Err, core.Forbidden("Transaction %d doesn't belong to you", tx.ID))
			return subcommands.ExitFailure
		}
		ok, err := a.confirm("Are you sure you want to delete this transaction?\n" + describeTransaction(tx, a.currency()))
		if err != nil {
			fmt.Fprintf(a.Err, "Error reading confirmation: %v\n", err)
			return subcommands.ExitFailure
		}
		if !ok {
			a.printf("Operation cancelled.\n")
			return subcommands.ExitSuccess
		}
	}

	err := svc.DeleteTransaction(ctx, user.ID, c.id)
	return a.report(services.ResultOf(err, "Transaction deleted successfully"))
}
