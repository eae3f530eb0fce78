package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: 1, Description: "coffee", Amount: Money{Cents: 350}, Category: "Food", Color: "#ff6384"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Description: "  ", Amount: Money{Cents: 100}, Category: "Food"}, ErrEmptyDescription},
		{Transaction{Description: "x", Amount: Money{Cents: 0}, Category: "Food"}, ErrInvalidAmount},
		{Transaction{Description: "x", Amount: Money{Cents: -5}, Category: "Food"}, ErrInvalidAmount},
		{Transaction{Description: "x", Amount: Money{Cents: 100}, Category: "Groceries"}, ErrUnknownCategory},
	}
	for i, tc := range cases {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestCategoryRegistry(t *testing.T) {
	if len(Categories) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(Categories))
	}
	if !KnownCategory(FallbackCategory) {
		t.Fatalf("fallback category %q must be registered", FallbackCategory)
	}
	c, ok := CategoryByName("Transport")
	if !ok || c.Color != "#36a2eb" {
		t.Fatalf("unexpected Transport lookup: %v %v", c, ok)
	}
	if KnownCategory("transport") {
		t.Fatalf("category names are case sensitive")
	}
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	l := Ledger{
		Transactions: []Transaction{{ID: 1, Description: "a", Amount: Money{Cents: 100}, Category: "Food"}},
		Budget:       Money{Cents: 1000},
	}
	c := l.Clone()
	c.Transactions[0].Description = "mutated"
	c.Budget.Cents = 0
	if l.Transactions[0].Description != "a" || l.Budget.Cents != 1000 {
		t.Fatalf("clone shares state with original: %+v", l)
	}
}
