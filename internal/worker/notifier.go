// Package worker implements the reminder notifier: it consumes scheduling
// events from the broker and emits a notification when a reminder falls due.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Notifier tracks scheduled reminders and delivers the ones that are due.
// Deliveries are log records; the process does not own a push channel.
type Notifier struct {
	mu      sync.Mutex
	pending map[int64]*amqp.ReminderMessage

	now func() time.Time // swappable in tests
}

func NewNotifier() *Notifier {
	return &Notifier{
		pending: make(map[int64]*amqp.ReminderMessage),
		now:     time.Now,
	}
}

// HandleMessage applies one scheduling event. A cancel for an unknown ID is a
// no-op so app-side rollbacks and redeliveries stay harmless.
func (n *Notifier) HandleMessage(msg *amqp.ReminderMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch msg.Action {
	case amqp.ActionSchedule:
		n.pending[msg.ID] = msg
		slog.Info("Reminder scheduled",
			"id", msg.ID,
			"title", msg.Title,
			"trigger_at", msg.TriggerAt)
	case amqp.ActionCancel:
		delete(n.pending, msg.ID)
		slog.Info("Reminder cancelled", "id", msg.ID)
	default:
		return fmt.Errorf("unknown reminder action %q", msg.Action)
	}
	return nil
}

// DeliverDue emits a notification for every pending reminder whose trigger
// time has passed and returns how many were delivered. Delivered reminders
// leave the pending set.
func (n *Notifier) DeliverDue(ctx context.Context) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	delivered := 0
	for id, msg := range n.pending {
		if msg.TriggerAt.After(now) {
			continue
		}

		attrs := []any{"id", id, "title", msg.Title}
		if msg.Amount != nil {
			// Reminders describe money leaving the account.
			attrs = append(attrs, "amount", core.FormatCurrency(-math.Abs(*msg.Amount)))
		}
		slog.InfoContext(ctx, "Reminder due", attrs...)

		delete(n.pending, id)
		delivered++
	}
	return delivered
}

// Pending returns how many reminders are waiting to fire.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}
