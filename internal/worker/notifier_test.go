package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
)

func TestHandleMessageScheduleAndCancel(t *testing.T) {
	n := NewNotifier()
	amount := 800.0

	if err := n.HandleMessage(amqp.NewScheduleMessage(1, "Pay rent", &amount, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if n.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", n.Pending())
	}

	if err := n.HandleMessage(amqp.NewCancelMessage(1)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if n.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", n.Pending())
	}

	// Cancels for unknown IDs are tolerated.
	if err := n.HandleMessage(amqp.NewCancelMessage(42)); err != nil {
		t.Fatalf("cancel unknown: %v", err)
	}
}

func TestHandleMessageUnknownAction(t *testing.T) {
	n := NewNotifier()
	if err := n.HandleMessage(&amqp.ReminderMessage{Action: "explode", ID: 1}); err == nil {
		t.Fatal("unknown action must be rejected so it is not acked")
	}
}

func TestDeliverDue(t *testing.T) {
	n := NewNotifier()
	base := time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return base }

	amount := 12.5
	_ = n.HandleMessage(amqp.NewScheduleMessage(1, "Insurance", &amount, base.Add(-time.Minute)))
	_ = n.HandleMessage(amqp.NewScheduleMessage(2, "Rent", nil, base.Add(time.Hour)))

	if got := n.DeliverDue(context.Background()); got != 1 {
		t.Fatalf("delivered = %d, want 1", got)
	}
	if n.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 (future reminder stays)", n.Pending())
	}

	// Nothing left to deliver until the second one falls due.
	if got := n.DeliverDue(context.Background()); got != 0 {
		t.Fatalf("delivered = %d, want 0", got)
	}

	n.now = func() time.Time { return base.Add(2 * time.Hour) }
	if got := n.DeliverDue(context.Background()); got != 1 {
		t.Fatalf("delivered = %d, want 1", got)
	}
	if n.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", n.Pending())
	}
}
