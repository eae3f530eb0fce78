package core

import (
	"errors"
	"strings"
)

// FallbackCategory absorbs transactions whose stored category is unknown
// or missing. It must always exist in Categories.
const FallbackCategory = "Other"

type (
	// Category is one of the fixed spending classifications. The color is a
	// display token used by badges, the chart, and the legend.
	Category struct {
		Name  string
		Color string
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single expense entry. Never mutated after creation;
	// Color is the category color denormalized at creation time so rendering
	// does not depend on the registry.
	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Category    string
		Color       string
	}

	// Ledger is the whole persisted state: all transactions in creation
	// order plus the monthly budget. Budget of zero means "unset".
	Ledger struct {
		Transactions []Transaction
		Budget       Money
	}
)

// Categories is the fixed registry of the 7 spending classifications.
// Order matters: it drives the form select and breaks breakdown ties.
var Categories = []Category{
	{Name: "Food", Color: "#ff6384"},
	{Name: "Transport", Color: "#36a2eb"},
	{Name: "Shopping", Color: "#ffce56"},
	{Name: "Bills", Color: "#4bc0c0"},
	{Name: "Entertainment", Color: "#9966ff"},
	{Name: "Health", Color: "#ff9f40"},
	{Name: FallbackCategory, Color: "#c9cbcf"},
}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrNotFound         = errors.New("transaction not found")
)

// CategoryByName looks up a category in the registry.
func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// KnownCategory reports whether name is one of the registered categories.
func KnownCategory(name string) bool {
	_, ok := CategoryByName(name)
	return ok
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !KnownCategory(t.Category) {
		return ErrUnknownCategory
	}
	return nil
}

// Clone returns a deep copy so callers can render or serialize a snapshot
// without holding the ledger lock.
func (l Ledger) Clone() Ledger {
	out := Ledger{Budget: l.Budget}
	if len(l.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(l.Transactions))
		copy(out.Transactions, l.Transactions)
	}
	return out
}
