package amqp

import (
	"testing"
	"time"

	"fintrack/internal/ledger"
)

func TestNewChangeMessage(t *testing.T) {
	msg := NewChangeMessage(ledger.Change{Op: ledger.OpAdd, ID: "tx-1"})

	if msg.Op != "add" {
		t.Errorf("NewChangeMessage() Op = %v, want add", msg.Op)
	}
	if msg.ID != "tx-1" {
		t.Errorf("NewChangeMessage() ID = %v, want tx-1", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewChangeMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewChangeMessage() Timestamp should be recent")
	}
}

func TestChangeMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	msg := &ChangeMessage{
		Op:        "preference",
		Currency:  "EUR",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ChangeMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ChangeMessageFromJSON() error = %v", err)
	}

	if parsed.Op != msg.Op {
		t.Errorf("Parsed Op = %v, want %v", parsed.Op, msg.Op)
	}
	if parsed.Currency != msg.Currency {
		t.Errorf("Parsed Currency = %v, want %v", parsed.Currency, msg.Currency)
	}
	if parsed.ID != "" {
		t.Errorf("Parsed ID = %v, want empty", parsed.ID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestChangeMessage_InvalidJSON(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte(`{"op": 7}`)); err == nil {
		t.Error("ChangeMessageFromJSON() should fail with invalid JSON")
	}
}
