package commands

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{"cents", decimal.RequireFromString("12.5"), "USD", "$12.50"},
		{"rounds to minor unit", decimal.RequireFromString("0.125"), "USD", "$0.13"},
		{"unknown currency", decimal.RequireFromString("7"), "XYZ", "7.00"},
		{"beyond int64 minor units", decimal.New(1, 17), "EUR", "100000000000000000.00 EUR"},
		{"huge balance", decimal.New(1, 20), "EUR", "100000000000000000000.00 EUR"},
		{"huge negative balance", decimal.New(-1, 20), "USD", "-100000000000000000000.00 USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAmount(tt.amount, tt.currency); got != tt.want {
				t.Errorf("formatAmount(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestRenderSummaryLargeBalance(t *testing.T) {
	sum := core.MonthlySummary{
		Year:     2024,
		Month:    time.January,
		Income:   decimal.New(1, 20),
		Expenses: decimal.Zero,
		Balance:  decimal.New(1, 20),
	}
	md := renderSummary(core.User{Name: "Alice"}, sum, "EUR")
	if !strings.Contains(md, "| Income | 100000000000000000000.00 EUR |") {
		t.Errorf("large income rendered wrongly:\n%s", md)
	}
	if !strings.Contains(md, "**100000000000000000000.00 EUR**") {
		t.Errorf("large balance rendered wrongly:\n%s", md)
	}
}
