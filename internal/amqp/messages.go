package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names the lifecycle change a message describes.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	default:
		return false
	}
}

// TransactionEventMessage is a lightweight change notification. It carries
// only the transaction id and the event kind; consumers fetch current state
// from the store themselves.
type TransactionEventMessage struct {
	ID        string    `json:"id"`
	Event     EventKind `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEventMessage creates an event message stamped with now.
func NewTransactionEventMessage(kind EventKind, id string) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:        id,
		Event:     kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes.
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Event.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Event)
	}
	return &msg, nil
}
