package amqp

import (
	"encoding/json"
	"time"
)

// Reminder message actions.
const (
	ActionSchedule = "schedule"
	ActionCancel   = "cancel"
)

// ReminderMessage carries a reminder scheduling event to the notifier worker.
// Schedule messages carry the full payload; cancel messages only need the ID.
type ReminderMessage struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Title     string    `json:"title,omitempty"`
	Amount    *float64  `json:"amount,omitempty"`
	TriggerAt time.Time `json:"trigger_at,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewScheduleMessage creates a schedule event for a reminder due at triggerAt.
func NewScheduleMessage(id int64, title string, amount *float64, triggerAt time.Time) *ReminderMessage {
	return &ReminderMessage{
		Action:    ActionSchedule,
		ID:        id,
		Title:     title,
		Amount:    amount,
		TriggerAt: triggerAt,
		Timestamp: time.Now(),
	}
}

// NewCancelMessage creates a cancel event for a previously scheduled reminder.
func NewCancelMessage(id int64) *ReminderMessage {
	return &ReminderMessage{
		Action:    ActionCancel,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON creates a message from JSON bytes
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
