package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary aggregates one user's transactions over a calendar month.
type MonthlySummary struct {
	Year     int
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// Summarize totals txs by type for the given month. Callers pass only
// transactions already inside the month window.
func Summarize(year int, month time.Month, txs []Transaction) MonthlySummary {
	s := MonthlySummary{
		Year:     year,
		Month:    month,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}
