package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/notify"
	"fintrack/internal/reminders"
)

// ReminderService keeps the reminder store and the notification scheduler in
// step: creating a reminder schedules its notification, removing it cancels.
type ReminderService struct {
	store     *reminders.Store
	scheduler notify.Scheduler
}

func NewReminderService(store *reminders.Store, scheduler notify.Scheduler) *ReminderService {
	if scheduler == nil {
		scheduler = notify.Noop{}
	}
	return &ReminderService{store: store, scheduler: scheduler}
}

// Create stores the reminder and schedules its notification. If scheduling
// fails the stored reminder is rolled back so store and broker never diverge.
func (s *ReminderService) Create(ctx context.Context, title, rawAmount string, dueAt time.Time) (core.Reminder, error) {
	r := s.store.Add(title, rawAmount, dueAt)

	if err := s.scheduler.Schedule(ctx, r.ID, r.Title, r.Amount, r.DueAt); err != nil {
		s.store.Remove(r.ID)
		return core.Reminder{}, fmt.Errorf("schedule notification: %w", err)
	}

	return r, nil
}

// Remove deletes the reminder and cancels its pending notification. A failed
// cancel is logged only; the worker tolerates cancels for unknown IDs anyway.
func (s *ReminderService) Remove(ctx context.Context, id int64) {
	s.store.Remove(id)

	if err := s.scheduler.Cancel(ctx, id); err != nil {
		slog.WarnContext(ctx, "Failed to cancel reminder notification",
			"id", id, "error", err)
	}
}

// ToggleDone flips the reminder's done flag, reporting whether it was found.
func (s *ReminderService) ToggleDone(id int64) bool {
	return s.store.ToggleDone(id)
}

// Reminders returns the current reminders, most recent first.
func (s *ReminderService) Reminders() []core.Reminder {
	return s.store.Reminders()
}
