package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type discriminates income from expense. The amount is always positive;
// the type carries the sign semantics.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Date is a calendar date with no time component. It marshals to and from
// the wire format "2006-01-02" used by the backend.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String returns the wire representation of the date.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. It accepts both the bare date
// form and full RFC 3339 timestamps, which older backend versions return;
// the time portion is dropped.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		*d = Date{Time: t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = NewDate(t.Year(), int(t.Month()), t.Day())
	return nil
}

// Transaction represents a single recorded income or expense event as
// confirmed by the remote store. The ID is opaque and server-assigned.
type Transaction struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
}

// TransactionDraft is user input for a new transaction, before the remote
// store has accepted it and assigned an ID.
type TransactionDraft struct {
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
}

// Validate checks the draft against the local acceptance rules. Validation
// failures never reach the remote collaborator.
func (d *TransactionDraft) Validate() error {
	if !d.Type.Valid() {
		return &ValidationError{Field: "type", Kind: ValidationEmptyField,
			Message: fmt.Sprintf("transaction type must be %q or %q", TypeIncome, TypeExpense)}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Kind: ValidationEmptyField,
			Message: "description must not be empty"}
	}
	if d.Amount.Sign() <= 0 {
		return &ValidationError{Field: "amount", Kind: ValidationNonPositiveAmount,
			Message: "amount must be a positive value"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Kind: ValidationMissingCategory,
			Message: "a category must be selected"}
	}
	if !CategoryAllowed(d.Type, d.Category) {
		return &ValidationError{Field: "category", Kind: ValidationMissingCategory,
			Message: fmt.Sprintf("category %q is not valid for type %q", d.Category, d.Type)}
	}
	if d.Date.IsZero() {
		return &ValidationError{Field: "date", Kind: ValidationInvalidDate,
			Message: "a date must be provided"}
	}
	return nil
}
