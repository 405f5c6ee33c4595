package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MonthKeyLayout is the calendar-month key format used by budgets
	// and by expense-to-budget correlation ("2024-07").
	MonthKeyLayout = "2006-01"

	// DateLayout is the stable serialized form of ledger dates.
	DateLayout = "2006-01-02"

	maxDescriptionLen = 200
)

type (
	// Date is a calendar day, normalized to UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is an owner-scoped spending record. Immutable once stored,
	// except for deletion.
	Expense struct {
		ID          string `json:"id"`
		OwnerID     string `json:"ownerId"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
	}

	// Income is an owner-scoped earning record. No budget thresholds apply.
	Income struct {
		ID      string `json:"id"`
		OwnerID string `json:"ownerId"`
		Source  string `json:"source"`
		Amount  Money  `json:"amount"`
		Date    Date   `json:"date"`
	}

	// Budget is a per-category monthly spending target. At most one budget
	// may exist per (owner, category, monthYear); the ledger store enforces
	// this at creation time.
	Budget struct {
		ID        string `json:"id"`
		OwnerID   string `json:"ownerId"`
		Category  string `json:"category"`
		Amount    Money  `json:"amount"`
		MonthYear string `json:"monthYear"`
	}

	// LedgerSnapshot is the complete state of one owner's ledger: the unit
	// of persistence, export and import. NotificationsSent maps dedup keys
	// to an "already sent" marker and only ever grows.
	LedgerSnapshot struct {
		Expenses          []Expense       `json:"expenses"`
		Incomes           []Income        `json:"incomes"`
		Budgets           []Budget        `json:"budgets"`
		NotificationsSent map[string]bool `json:"notificationsSent"`
	}
)

var (
	ErrDuplicateBudget  = errors.New("budget already exists for category and month")
	ErrNotFound         = errors.New("entity not found")
	ErrCorruptData      = errors.New("corrupt ledger data")
	ErrInvalidImport    = errors.New("invalid import document")
	ErrNotificationSend = errors.New("notification send failed")
)

// ValidationError reports a rejected create operation. The entity is never
// stored when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in its serialized "YYYY-MM-DD" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid("date", "must be in YYYY-MM-DD format")
	}
	return Date{Time: t}, nil
}

// MonthKey returns the calendar-month key of the date ("2024-07").
// Correlation with budgets is by this truncation, never by range checks.
func (d Date) MonthKey() string {
	return d.Format(MonthKeyLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid("date", "must not be zero")
	}
	return nil
}

// MarshalJSON encodes the date in its stable serialized form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts the stable form and, for older snapshots, full
// RFC 3339 timestamps. The time-of-day portion is discarded.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// ValidMonthKey reports whether s is a well-formed "YYYY-MM" month key.
func ValidMonthKey(s string) bool {
	_, err := time.Parse(MonthKeyLayout, s)
	return err == nil
}

// MonthLabel renders a month key for human-facing messages ("July 2024").
// Malformed keys are returned unchanged.
func MonthLabel(monthYear string) string {
	t, err := time.Parse(MonthKeyLayout, monthYear)
	if err != nil {
		return monthYear
	}
	return t.Format("January 2006")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return invalid("amount", "must be positive")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		return invalid("description", "must not be empty")
	}
	if len(e.Description) > maxDescriptionLen {
		return invalid("description", fmt.Sprintf("too long (max %d characters)", maxDescriptionLen))
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !ValidExpenseCategory(e.Category) {
		return invalid("category", fmt.Sprintf("unknown expense category %q", e.Category))
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if !ValidIncomeSource(i.Source) {
		return invalid("source", fmt.Sprintf("unknown income source %q", i.Source))
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !ValidExpenseCategory(b.Category) {
		return invalid("category", fmt.Sprintf("unknown expense category %q", b.Category))
	}
	if !ValidMonthKey(b.MonthYear) {
		return invalid("monthYear", fmt.Sprintf("%q is not a YYYY-MM month key", b.MonthYear))
	}
	return nil
}

// Clone returns a deep copy of the snapshot, safe to hand out to callers.
func (s LedgerSnapshot) Clone() LedgerSnapshot {
	out := LedgerSnapshot{
		Expenses:          make([]Expense, len(s.Expenses)),
		Incomes:           make([]Income, len(s.Incomes)),
		Budgets:           make([]Budget, len(s.Budgets)),
		NotificationsSent: make(map[string]bool, len(s.NotificationsSent)),
	}
	copy(out.Expenses, s.Expenses)
	copy(out.Incomes, s.Incomes)
	copy(out.Budgets, s.Budgets)
	for k, v := range s.NotificationsSent {
		out.NotificationsSent[k] = v
	}
	return out
}
