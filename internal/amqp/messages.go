package amqp

import (
	"encoding/json"
	"time"
)

type EventKind string

const (
	EventExpenseAdded   EventKind = "expense_added"
	EventExpenseDeleted EventKind = "expense_deleted"
	EventNotification   EventKind = "notification"
)

// EventMessage is the single wire shape on the events queue: expense
// mutations carry an expense id, notification events carry severity and
// text.
type EventMessage struct {
	Kind      EventKind `json:"kind"`
	ExpenseID string    `json:"expense_id,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent builds a mutation event for an expense id.
func NewExpenseEvent(kind EventKind, expenseID string) *EventMessage {
	return &EventMessage{
		Kind:      kind,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// NewNotificationEvent builds a notification event.
func NewNotificationEvent(severity, message string) *EventMessage {
	return &EventMessage{
		Kind:      EventNotification,
		Severity:  severity,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON parses a message from JSON bytes.
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
