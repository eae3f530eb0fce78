// Package storage provides the durable key-value store backing the ledger.
// The ledger persists exactly two JSON entries: the transaction list and
// the budget. Anything that can Get and Set strings by key qualifies.
package storage

import (
	"context"
	"sync"
)

// Keys for the two persisted ledger entries.
const (
	KeyTransactions = "cashcraft.transactions"
	KeyBudget       = "cashcraft.budget"
)

// KV is the persistence port. Get reports ok=false for an absent key;
// absence is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV is an in-process KV for tests and ephemeral runs.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
