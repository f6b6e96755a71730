package amqp

import (
	"testing"
	"time"
)

func TestNewScheduleMessage(t *testing.T) {
	amount := 45.0
	triggerAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	msg := NewScheduleMessage(12345, "Pay rent", &amount, triggerAt)

	if msg.Action != ActionSchedule {
		t.Errorf("NewScheduleMessage() Action = %v, want %v", msg.Action, ActionSchedule)
	}
	if msg.ID != 12345 {
		t.Errorf("NewScheduleMessage() ID = %v, want 12345", msg.ID)
	}
	if msg.Title != "Pay rent" {
		t.Errorf("NewScheduleMessage() Title = %v, want Pay rent", msg.Title)
	}
	if msg.Amount == nil || *msg.Amount != amount {
		t.Errorf("NewScheduleMessage() Amount = %v, want %v", msg.Amount, amount)
	}
	if !msg.TriggerAt.Equal(triggerAt) {
		t.Errorf("NewScheduleMessage() TriggerAt = %v, want %v", msg.TriggerAt, triggerAt)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewScheduleMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewScheduleMessage() Timestamp should be recent")
	}
}

func TestNewCancelMessage(t *testing.T) {
	msg := NewCancelMessage(77)

	if msg.Action != ActionCancel {
		t.Errorf("NewCancelMessage() Action = %v, want %v", msg.Action, ActionCancel)
	}
	if msg.ID != 77 {
		t.Errorf("NewCancelMessage() ID = %v, want 77", msg.ID)
	}
	if msg.Title != "" || msg.Amount != nil {
		t.Error("NewCancelMessage() should not carry a payload")
	}
}

func TestReminderMessage_JSON(t *testing.T) {
	amount := 9.5
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ReminderMessage{
		Action:    ActionSchedule,
		ID:        12345,
		Title:     "Insurance",
		Amount:    &amount,
		TriggerAt: timestamp.Add(24 * time.Hour),
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := ReminderMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ReminderMessageFromJSON() error = %v", err)
	}

	if parsedMsg.Action != msg.Action {
		t.Errorf("Parsed Action = %v, want %v", parsedMsg.Action, msg.Action)
	}
	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Amount == nil || *parsedMsg.Amount != amount {
		t.Errorf("Parsed Amount = %v, want %v", parsedMsg.Amount, amount)
	}
	if !parsedMsg.TriggerAt.Equal(msg.TriggerAt) {
		t.Errorf("Parsed TriggerAt = %v, want %v", parsedMsg.TriggerAt, msg.TriggerAt)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestReminderMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": "not_a_number", "action": "schedule"}`)

	_, err := ReminderMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("ReminderMessageFromJSON() should fail with invalid JSON")
	}
}
