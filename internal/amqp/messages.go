package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/ledger"
)

// ChangeMessage announces one ledger mutation. It carries only the operation
// and transaction id; consumers fetch current ledger state themselves.
type ChangeMessage struct {
	Op        string    `json:"op"`
	ID        string    `json:"id,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage builds the wire message for a ledger change.
func NewChangeMessage(ch ledger.Change) *ChangeMessage {
	return &ChangeMessage{
		Op:        string(ch.Op),
		ID:        ch.ID,
		Currency:  ch.DefaultCurrency,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
