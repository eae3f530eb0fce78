package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cashcraft/internal/core"
	"cashcraft/internal/events"
	"cashcraft/internal/log"
	"cashcraft/internal/storage"
)

type fakeKV struct {
	values   map[string]string
	setCalls int
	failSet  bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.setCalls++
	if f.failSet {
		return errors.New("disk full")
	}
	f.values[key] = value
	return nil
}

type fakeSink struct {
	published []*events.LedgerEventMessage
}

func (f *fakeSink) Publish(_ context.Context, msg *events.LedgerEventMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestService(kv storage.KV, sink EventSink) *Service {
	return NewService(kv, sink, testLogger())
}

func TestLoadEmptyStore(t *testing.T) {
	svc := newTestService(newFakeKV(), nil)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.Transactions) != 0 {
		t.Errorf("expected empty ledger, got %d transactions", len(snap.Transactions))
	}
	if snap.Budget.Cents != 0 {
		t.Errorf("expected zero budget, got %d", snap.Budget.Cents)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	first := newTestService(kv, nil)
	if err := first.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := first.SetBudget(ctx, 100000); err != nil {
		t.Fatalf("SetBudget() error = %v", err)
	}
	added, err := first.AddTransaction(ctx, "Groceries", 20000, "Food")
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	if _, err := first.AddTransaction(ctx, "Bus pass", 10000, "Transport"); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	second := newTestService(kv, nil)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() after restart error = %v", err)
	}

	snap := second.Snapshot()
	if snap.Budget.Cents != 100000 {
		t.Errorf("budget = %d, want 100000", snap.Budget.Cents)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(snap.Transactions))
	}
	got := snap.Transactions[0]
	if got.ID != added.ID || got.Description != "Groceries" || got.Amount.Cents != 20000 {
		t.Errorf("first transaction = %+v, want the one added before restart", got)
	}
	if got.Color != "#ff6384" {
		t.Errorf("color = %q, want Food color", got.Color)
	}
}

func TestLoadToleratesCorruptValues(t *testing.T) {
	kv := newFakeKV()
	kv.values[storage.KeyTransactions] = "{not json"
	kv.values[storage.KeyBudget] = "lots"

	svc := newTestService(kv, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, want corrupt values replaced with defaults", err)
	}

	snap := svc.Snapshot()
	if len(snap.Transactions) != 0 || snap.Budget.Cents != 0 {
		t.Errorf("snapshot = %+v, want empty defaults", snap)
	}
}

func TestLoadCoercesUnknownCategory(t *testing.T) {
	kv := newFakeKV()
	kv.values[storage.KeyTransactions] = `[{"id":1,"description":"Old thing","amount_cents":500,"category":"Gadgets","color":"#123456"}]`

	svc := newTestService(kv, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(snap.Transactions))
	}
	tx := snap.Transactions[0]
	if tx.Category != core.FallbackCategory {
		t.Errorf("category = %q, want %q", tx.Category, core.FallbackCategory)
	}
	if tx.Color != "#c9cbcf" {
		t.Errorf("color = %q, want fallback color", tx.Color)
	}
}

func TestSetBudget(t *testing.T) {
	tests := []struct {
		name    string
		cents   int64
		wantErr error
	}{
		{name: "positive", cents: 150000},
		{name: "zero clears", cents: 0},
		{name: "negative rejected", cents: -1, wantErr: core.ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV()
			svc := newTestService(kv, nil)

			err := svc.SetBudget(context.Background(), tt.cents)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetBudget(%d) error = %v, want %v", tt.cents, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if kv.setCalls != 0 {
					t.Errorf("rejected budget reached the store (%d Set calls)", kv.setCalls)
				}
				return
			}
			if got := svc.Snapshot().Budget.Cents; got != tt.cents {
				t.Errorf("budget = %d, want %d", got, tt.cents)
			}
		})
	}
}

func TestAddTransactionValidation(t *testing.T) {
	tests := []struct {
		name        string
		description string
		cents       int64
		category    string
		wantErr     error
	}{
		{name: "empty description", description: "   ", cents: 100, category: "Food", wantErr: core.ErrEmptyDescription},
		{name: "zero amount", description: "Coffee", cents: 0, category: "Food", wantErr: core.ErrInvalidAmount},
		{name: "negative amount", description: "Coffee", cents: -300, category: "Food", wantErr: core.ErrInvalidAmount},
		{name: "unknown category", description: "Coffee", cents: 300, category: "Gadgets", wantErr: core.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV()
			svc := newTestService(kv, nil)

			_, err := svc.AddTransaction(context.Background(), tt.description, tt.cents, tt.category)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddTransaction() error = %v, want %v", err, tt.wantErr)
			}
			if kv.setCalls != 0 {
				t.Errorf("rejected transaction reached the store (%d Set calls)", kv.setCalls)
			}
			if n := len(svc.Snapshot().Transactions); n != 0 {
				t.Errorf("ledger has %d transactions after rejection, want 0", n)
			}
		})
	}
}

func TestAddTransactionAssignsUniqueIncreasingIDs(t *testing.T) {
	svc := newTestService(newFakeKV(), nil)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		tx, err := svc.AddTransaction(ctx, "Snack", 250, "Food")
		if err != nil {
			t.Fatalf("AddTransaction() error = %v", err)
		}
		if tx.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", tx.ID, prev)
		}
		prev = tx.ID
	}
}

func TestDeleteTransaction(t *testing.T) {
	kv := newFakeKV()
	svc := newTestService(kv, nil)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "Cinema", 1200, "Entertainment")
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if n := len(svc.Snapshot().Transactions); n != 0 {
		t.Errorf("ledger has %d transactions after delete, want 0", n)
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete error = %v, want %v", err, core.ErrNotFound)
	}
}

func TestDeleteMissingDoesNotPersist(t *testing.T) {
	kv := newFakeKV()
	svc := newTestService(kv, nil)

	if err := svc.DeleteTransaction(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("DeleteTransaction() error = %v, want %v", err, core.ErrNotFound)
	}
	if kv.setCalls != 0 {
		t.Errorf("missing delete reached the store (%d Set calls)", kv.setCalls)
	}
}

func TestPersistFailureRollsBack(t *testing.T) {
	kv := newFakeKV()
	svc := newTestService(kv, nil)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "Rent", 80000, "Bills")
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	kv.failSet = true

	if _, err := svc.AddTransaction(ctx, "Extra", 100, "Food"); err == nil {
		t.Fatal("AddTransaction() with failing store succeeded, want error")
	}
	if err := svc.DeleteTransaction(ctx, tx.ID); err == nil {
		t.Fatal("DeleteTransaction() with failing store succeeded, want error")
	}
	if err := svc.SetBudget(ctx, 999); err == nil {
		t.Fatal("SetBudget() with failing store succeeded, want error")
	}

	snap := svc.Snapshot()
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != tx.ID {
		t.Errorf("transactions after rollback = %+v, want only the first one", snap.Transactions)
	}
	if snap.Budget.Cents != 0 {
		t.Errorf("budget after rollback = %d, want 0", snap.Budget.Cents)
	}
}

func TestMutationsNotifySink(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(newFakeKV(), sink)
	ctx := context.Background()

	if err := svc.SetBudget(ctx, 50000); err != nil {
		t.Fatalf("SetBudget() error = %v", err)
	}
	tx, err := svc.AddTransaction(ctx, "Taxi", 1500, "Transport")
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}

	if len(sink.published) != 3 {
		t.Fatalf("published %d events, want 3", len(sink.published))
	}
	wantKinds := []events.Kind{events.KindBudgetSet, events.KindTransactionAdded, events.KindTransactionDeleted}
	for i, kind := range wantKinds {
		if sink.published[i].Kind != kind {
			t.Errorf("event[%d].Kind = %q, want %q", i, sink.published[i].Kind, kind)
		}
	}
	if sink.published[1].TransactionID != tx.ID {
		t.Errorf("added event transaction id = %d, want %d", sink.published[1].TransactionID, tx.ID)
	}
}
