package events

import (
	"encoding/json"
	"time"
)

// Kind identifies which ledger mutation happened.
type Kind string

const (
	KindBudgetSet          Kind = "budget_set"
	KindTransactionAdded   Kind = "transaction_added"
	KindTransactionDeleted Kind = "transaction_deleted"
)

// LedgerEventMessage is the wire form of a ledger mutation notification.
// It is deliberately small: consumers that need the full ledger read the
// store themselves.
type LedgerEventMessage struct {
	Kind          Kind      `json:"kind"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewLedgerEvent(kind Kind, transactionID, amountCents int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:          kind,
		TransactionID: transactionID,
		AmountCents:   amountCents,
		OccurredAt:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates a message from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
