package core

import (
	"errors"
	"time"
)

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

type (
	// Period names a relative time window used to narrow the collection
	// before analysis.
	Period string

	// Date is a calendar date with no time-of-day component. The zero
	// value is the zero time.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is immutable once created: it is appended by the add
	// operation and removed by id, never updated in place.
	Expense struct {
		ID          string
		Description string
		Amount      Money
		Category    string
		Date        Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrUnknownPeriod = errors.New("unknown period")
)

// DateLayout is the fixed-width, zero-padded encoding every persisted
// date uses. Lexicographic order of encoded dates matches calendar order.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a Date. The point in time is
// midnight UTC, matching how date-only strings are compared throughout
// the pipeline.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String encodes the date back to YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Label renders a short human-readable day label such as "Jan 5".
func (d Date) Label() string {
	return d.Format("Jan 2")
}

// ParsePeriod validates a period selection coming from the outside.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// IsValid reports whether p is one of the four known windows.
func (p Period) IsValid() bool {
	_, err := ParsePeriod(string(p))
	return err == nil
}

// Validate checks the fields the pipeline depends on. Description and
// category are deliberately unconstrained free text: any string the user
// supplies becomes a category of its own.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
