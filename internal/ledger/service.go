// Package ledger holds the in-memory budgeting state and applies every
// mutation through a single serialized path: validate, mutate, persist,
// then notify. The key/value store is the source of truth across restarts.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cashcraft/internal/core"
	"cashcraft/internal/events"
	"cashcraft/internal/log"
	"cashcraft/internal/storage"
)

// EventSink receives a notification after each committed mutation.
// A nil sink disables notifications entirely.
type EventSink interface {
	Publish(ctx context.Context, msg *events.LedgerEventMessage) error
}

// Service owns the ledger state. All methods are safe for concurrent use.
type Service struct {
	mu     sync.Mutex
	state  core.Ledger
	lastID int64

	store  storage.KV
	sink   EventSink
	logger *log.Logger
}

// storedTransaction is the persisted form of a transaction. Kept separate
// from core.Transaction so the storage format can evolve independently.
type storedTransaction struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Color       string `json:"color"`
}

// NewService creates a ledger service over the given store. The sink may
// be nil when no broker is configured.
func NewService(store storage.KV, sink EventSink, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		store:  store,
		sink:   sink,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// Load restores the ledger from the store. Missing keys mean a fresh
// ledger; corrupted values are logged and replaced with defaults rather
// than failing startup. Transactions with a category that is no longer
// registered are coerced to the fallback category.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := core.Ledger{}

	raw, ok, err := s.store.Get(ctx, storage.KeyBudget)
	if err != nil {
		return fmt.Errorf("load budget: %w", err)
	}
	if ok {
		cents, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || cents < 0 {
			s.logger.WarnContext(ctx, "Stored budget is unreadable, resetting to zero",
				log.FieldOperation, log.OpLoad,
				log.FieldStorageKey, storage.KeyBudget)
		} else {
			state.Budget = core.Money{Cents: cents}
		}
	}

	raw, ok, err = s.store.Get(ctx, storage.KeyTransactions)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if ok {
		var stored []storedTransaction
		if uerr := json.Unmarshal([]byte(raw), &stored); uerr != nil {
			s.logger.WarnContext(ctx, "Stored transactions are unreadable, starting empty",
				log.FieldOperation, log.OpLoad,
				log.FieldStorageKey, storage.KeyTransactions,
				log.FieldError, uerr.Error())
		} else {
			state.Transactions = make([]core.Transaction, 0, len(stored))
			for _, st := range stored {
				tx := core.Transaction{
					ID:          st.ID,
					Description: st.Description,
					Amount:      core.Money{Cents: st.AmountCents},
					Category:    st.Category,
					Color:       st.Color,
				}
				if !core.KnownCategory(tx.Category) {
					fallback, _ := core.CategoryByName(core.FallbackCategory)
					s.logger.WarnContext(ctx, "Coercing unknown category to fallback",
						log.FieldOperation, log.OpLoad,
						log.FieldTransactionID, tx.ID,
						log.FieldCategory, tx.Category)
					tx.Category = fallback.Name
					tx.Color = fallback.Color
				}
				state.Transactions = append(state.Transactions, tx)
				if tx.ID > s.lastID {
					s.lastID = tx.ID
				}
			}
		}
	}

	s.state = state
	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"transactions", len(state.Transactions),
		log.FieldBudgetCents, state.Budget.Cents)
	return nil
}

// Snapshot returns a deep copy of the current ledger for rendering.
func (s *Service) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetBudget replaces the monthly budget. Zero clears it; negative values
// are rejected.
func (s *Service) SetBudget(ctx context.Context, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidBudget
	}

	s.mu.Lock()
	prev := s.state.Budget
	s.state.Budget = core.Money{Cents: cents}
	if err := s.persistLocked(ctx); err != nil {
		s.state.Budget = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify(ctx, events.NewLedgerEvent(events.KindBudgetSet, 0, cents))
	return nil
}

// AddTransaction validates and records a new expense, returning the
// stored transaction with its assigned id.
func (s *Service) AddTransaction(ctx context.Context, description string, cents int64, category string) (core.Transaction, error) {
	cat, ok := core.CategoryByName(category)
	if !ok {
		return core.Transaction{}, core.ErrUnknownCategory
	}

	s.mu.Lock()
	tx := core.Transaction{
		ID:          s.nextIDLocked(),
		Description: description,
		Amount:      core.Money{Cents: cents},
		Category:    cat.Name,
		Color:       cat.Color,
	}
	if err := tx.Validate(); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}

	s.state.Transactions = append(s.state.Transactions, tx)
	if err := s.persistLocked(ctx); err != nil {
		s.state.Transactions = s.state.Transactions[:len(s.state.Transactions)-1]
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, tx.ID,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldCategory, tx.Category)
	s.notify(ctx, events.NewLedgerEvent(events.KindTransactionAdded, tx.ID, tx.Amount.Cents))
	return tx, nil
}

// DeleteTransaction removes the transaction with the given id.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := -1
	for i, tx := range s.state.Transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.ErrNotFound
	}

	removed := s.state.Transactions[idx]
	prev := s.state.Transactions
	next := make([]core.Transaction, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.state.Transactions = next
	if err := s.persistLocked(ctx); err != nil {
		s.state.Transactions = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, removed.ID,
		log.FieldAmountCents, removed.Amount.Cents)
	s.notify(ctx, events.NewLedgerEvent(events.KindTransactionDeleted, removed.ID, removed.Amount.Cents))
	return nil
}

// nextIDLocked assigns wall-clock millisecond ids, bumping past the last
// assigned id so two mutations in the same millisecond stay distinct.
func (s *Service) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persistLocked writes both storage keys. Callers roll back the in-memory
// mutation when it fails so memory never runs ahead of the store.
func (s *Service) persistLocked(ctx context.Context) error {
	stored := make([]storedTransaction, 0, len(s.state.Transactions))
	for _, tx := range s.state.Transactions {
		stored = append(stored, storedTransaction{
			ID:          tx.ID,
			Description: tx.Description,
			AmountCents: tx.Amount.Cents,
			Category:    tx.Category,
			Color:       tx.Color,
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyTransactions, string(data)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyBudget, strconv.FormatInt(s.state.Budget.Cents, 10)); err != nil {
		return fmt.Errorf("persist budget: %w", err)
	}
	return nil
}

// notify publishes a mutation event. Delivery is best effort: the
// mutation is already committed, so failures are only logged.
func (s *Service) notify(ctx context.Context, msg *events.LedgerEventMessage) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldOperation, log.OpPublish,
			log.FieldError, err.Error())
	}
}
