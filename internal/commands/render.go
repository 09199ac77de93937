package commands

import (
	"fmt"
	"strings"

	"fintrack/internal/core"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// printMarkdown renders md for the terminal, or writes it unchanged in plain mode.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		fmt.Fprint(a.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(a.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(a.Out, md)
		return
	}
	fmt.Fprint(a.Out, out)
}

// formatAmount displays d in the configured currency, rounded to its minor unit.
// Unknown currency codes, and totals beyond int64 minor units, fall back to
// the plain decimal.
func formatAmount(d decimal.Decimal, code string) string {
	c := money.GetCurrency(code)
	if c == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(c.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return d.StringFixed(int32(c.Fraction)) + " " + c.Code
	}
	return money.New(minor.IntPart(), c.Code).Display()
}

// escapeCell keeps free text from breaking a markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func renderTransactions(user core.User, txs []core.Transaction, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Transactions for %s\n\n", user.Name)
	b.WriteString("| ID | Date | Type | Amount | Category | Description |\n")
	b.WriteString("|---:|:-----|:-----|-------:|:---------|:------------|\n")
	for _, t := range txs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			t.ID,
			t.Date,
			strings.ToUpper(string(t.Type)),
			formatAmount(t.Amount, currency),
			escapeCell(t.Category),
			escapeCell(t.Description))
	}
	fmt.Fprintf(&b, "\n%d transaction(s)\n", len(txs))
	return b.String()
}

func renderSummary(user core.User, s core.MonthlySummary, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Monthly Summary for %s - %d/%d\n\n", user.Name, int(s.Month), s.Year)
	b.WriteString("| | Amount |\n")
	b.WriteString("|:--|--:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", formatAmount(s.Income, currency))
	fmt.Fprintf(&b, "| Expenses | %s |\n", formatAmount(s.Expenses, currency))
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", formatAmount(s.Balance, currency))
	return b.String()
}

func describeTransaction(t core.Transaction, currency string) string {
	s := fmt.Sprintf("ID: %d | Date: %s | Type: %s | Amount: %s | Category: %s",
		t.ID, t.Date, strings.ToUpper(string(t.Type)), formatAmount(t.Amount, currency), t.Category)
	if t.Description != "" {
		s += "\nDescription: " + t.Description
	}
	return s
}
