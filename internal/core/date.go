package core

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used for input, storage and display.
const DateFormat = "2006-01-02"

// Date is a calendar day, always held at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns a normalized Date, so NewDate(2024, 12, 32) is 2025-01-01.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts exactly YYYY-MM-DD and rejects impossible days such as 2024-13-40.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: please use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateFormat)
}

// AddMonths moves the date by n calendar months, rolling the year as needed.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.AddDate(0, n, 0)}
}

// MonthRange returns the half-open window [first day of month, first day of next month).
func MonthRange(year int, month time.Month) (start, end Date) {
	start = NewDate(year, month, 1)
	return start, start.AddMonths(1)
}

// ValidateMonth reports whether month is in 1..12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w %d: must be between 1 and 12", ErrInvalidMonth, month)
	}
	return nil
}
