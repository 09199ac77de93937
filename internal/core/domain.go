package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType is either Income or Expense.
	TransactionType string

	User struct {
		ID        int64
		Name      string
		Email     string
		CreatedAt Date
	}

	// Transaction is one ledger entry. The sign of Amount carries no meaning;
	// Type decides whether it counts as income or expense.
	Transaction struct {
		ID          int64
		UserID      int64
		Amount      decimal.Decimal
		Type        TransactionType
		Category    string
		Date        Date
		Description string
	}

	// NewTransaction holds the raw entry values of a transaction to be recorded.
	// Type and Date are still unparsed; an empty Date means today.
	NewTransaction struct {
		UserID      int64
		Amount      decimal.Decimal
		Type        string
		Category    string
		Description string
		Date        string
	}

	// TransactionFilter narrows a listing. Every set field must match.
	TransactionFilter struct {
		Type      TransactionType
		Category  string
		StartDate *Date
		EndDate   *Date
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrInvalidRange  = errors.New("start date is after end date")
)

// ParseTransactionType accepts "income" or "expense", ignoring case and surrounding blanks.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("%w %q: must be income or expense", ErrInvalidType, string(t))
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateEmail is a deliberately loose check: something before an @ and a dot in the domain.
func ValidateEmail(email string) error {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return fmt.Errorf("%w %q", ErrInvalidEmail, email)
	}
	return nil
}

func (f TransactionFilter) Validate() error {
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(f.EndDate.Time) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, f.StartDate, f.EndDate)
	}
	return nil
}

// IsEmpty reports whether the filter matches every transaction of a user.
func (f TransactionFilter) IsEmpty() bool {
	return f.Type == "" && f.Category == "" && f.StartDate == nil && f.EndDate == nil
}
