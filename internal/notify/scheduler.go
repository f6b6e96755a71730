// Package notify abstracts reminder notification scheduling. The app core
// only records the intent; actual delivery happens in the notifier worker.
package notify

import (
	"context"
	"time"

	"fintrack/internal/amqp"
)

// Scheduler schedules and cancels reminder notifications.
type Scheduler interface {
	Schedule(ctx context.Context, id int64, title string, amount *float64, triggerAt time.Time) error
	Cancel(ctx context.Context, id int64) error
}

// Noop is used when no broker is configured; reminders still work, they just
// never notify.
type Noop struct{}

func (Noop) Schedule(context.Context, int64, string, *float64, time.Time) error { return nil }
func (Noop) Cancel(context.Context, int64) error                                { return nil }

// AMQPScheduler publishes scheduling events to the notifier queue.
type AMQPScheduler struct {
	client *amqp.Client
}

func NewAMQPScheduler(client *amqp.Client) *AMQPScheduler {
	return &AMQPScheduler{client: client}
}

func (s *AMQPScheduler) Schedule(ctx context.Context, id int64, title string, amount *float64, triggerAt time.Time) error {
	return s.client.PublishReminder(ctx, amqp.NewScheduleMessage(id, title, amount, triggerAt))
}

func (s *AMQPScheduler) Cancel(ctx context.Context, id int64) error {
	return s.client.PublishReminder(ctx, amqp.NewCancelMessage(id))
}
