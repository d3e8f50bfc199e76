package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Online Mode = "Online"
	Cash   Mode = "Cash"
)

type (
	// Mode is the payment channel a record belongs to.
	Mode string

	// Date is a pure calendar date. The time of day is always midnight UTC.
	Date struct {
		time.Time
	}

	// Money is an exact decimal amount in the ledger's single currency.
	Money struct {
		Amount decimal.Decimal
	}

	// ExpenseRecord is one row of the Expenses table. The ID is assigned
	// in-session (at load or creation) and never persisted.
	ExpenseRecord struct {
		ID       uuid.UUID
		Date     Date
		Item     string
		Category string
		Amount   Money
		Mode     Mode
	}

	// FundRecord is one row of the Funds table. Deposits carry a positive
	// amount; a channel transfer synthesizes a negative/positive pair.
	FundRecord struct {
		ID     uuid.UUID
		Date   Date
		Source string
		Mode   Mode
		Amount Money
	}

	// TodoRecord is one row of the shopping checklist.
	TodoRecord struct {
		ID    uuid.UUID
		Item  string
		Notes string
		Done  bool
	}
)

// ErrValidation is the root of the validation error tree; every field-level
// sentinel wraps it so callers can check the whole family with errors.Is.
var (
	ErrValidation = errors.New("validation failed")

	ErrEmptyItem         = fmt.Errorf("%w: empty item", ErrValidation)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrZeroAmount        = fmt.Errorf("%w: amount must be non-zero", ErrValidation)
	ErrInvalidMode       = fmt.Errorf("%w: mode must be Online or Cash", ErrValidation)
	ErrZeroDate          = fmt.Errorf("%w: date not set", ErrValidation)
	ErrSameMode          = fmt.Errorf("%w: transfer needs two different modes", ErrValidation)
)

// dateLayout is the wire and file format for calendar dates.
const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Equal compares calendar dates ignoring location.
func (d Date) Equal(other Date) bool {
	if d.IsZero() || other.IsZero() {
		return d.IsZero() == other.IsZero()
	}
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewMoney wraps a decimal as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{Amount: d}
}

// MoneyFromString parses a decimal amount string. Empty input is zero.
func MoneyFromString(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{Amount: d}, nil
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount)}
}

func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg()}
}

func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsZero() bool     { return m.Amount.IsZero() }

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return m.Amount.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return m.Amount.MarshalJSON()
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Amount.UnmarshalJSON(b)
}

func (m Mode) Validate() error {
	if m != Online && m != Cash {
		return ErrInvalidMode
	}
	return nil
}

// Channel collapses a mode onto one of the two balance channels. Anything
// that is not exactly Cash counts as Online, which is the legacy convention
// older files rely on.
func (m Mode) Channel() Mode {
	if m == Cash {
		return Cash
	}
	return Online
}

func (e ExpenseRecord) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Item) == "" {
		return ErrEmptyItem
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return e.Mode.Validate()
}

// Validate allows negative amounts: the outgoing leg of a transfer is a
// negative fund row. Only a zero amount is meaningless.
func (f FundRecord) Validate() error {
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if f.Amount.IsZero() {
		return ErrZeroAmount
	}
	return f.Mode.Validate()
}

func (t TodoRecord) Validate() error {
	if strings.TrimSpace(t.Item) == "" {
		return ErrEmptyItem
	}
	return nil
}
