package amqp

import (
	"encoding/json"
	"time"
)

// EventType names a committed ledger mutation.
type EventType string

const (
	UserCreated        EventType = "user.created"
	UserDeleted        EventType = "user.deleted"
	TransactionCreated EventType = "transaction.created"
	TransactionDeleted EventType = "transaction.deleted"
)

// LedgerEvent is a lightweight notification; consumers read details from the ledger itself.
type LedgerEvent struct {
	Type          EventType `json:"type"`
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent stamps an event with the current time
func NewLedgerEvent(typ EventType, userID, transactionID int64) LedgerEvent {
	return LedgerEvent{
		Type:          typ,
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now().UTC(),
	}
}

// RoutingKey derives the topic routing key, e.g. "ledger_events.transaction.created"
func (e LedgerEvent) RoutingKey(prefix string) string {
	if prefix == "" {
		return string(e.Type)
	}
	return prefix + "." + string(e.Type)
}

// ToJSON converts the event to JSON bytes
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
