package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/reminders"
)

type fakeScheduler struct {
	scheduled   []int64
	cancelled   []int64
	scheduleErr error
	cancelErr   error
}

func (f *fakeScheduler) Schedule(_ context.Context, id int64, _ string, _ *float64, _ time.Time) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, id)
	return nil
}

func (f *fakeScheduler) Cancel(_ context.Context, id int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func TestReminderServiceCreateSchedules(t *testing.T) {
	store := reminders.NewStore()
	sched := &fakeScheduler{}
	svc := NewReminderService(store, sched)

	r, err := svc.Create(context.Background(), "Pay rent", "800", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != r.ID {
		t.Fatalf("scheduled = %v, want [%d]", sched.scheduled, r.ID)
	}
	if len(store.Reminders()) != 1 {
		t.Fatal("reminder should be stored")
	}
}

func TestReminderServiceCreateRollsBackOnScheduleFailure(t *testing.T) {
	store := reminders.NewStore()
	svc := NewReminderService(store, &fakeScheduler{scheduleErr: errors.New("broker down")})

	_, err := svc.Create(context.Background(), "Pay rent", "800", time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("Create must fail when scheduling fails")
	}
	if len(store.Reminders()) != 0 {
		t.Fatal("stored reminder must be rolled back on schedule failure")
	}
}

func TestReminderServiceRemoveCancels(t *testing.T) {
	store := reminders.NewStore()
	sched := &fakeScheduler{}
	svc := NewReminderService(store, sched)

	r, _ := svc.Create(context.Background(), "Insurance", "", time.Now().Add(time.Hour))
	svc.Remove(context.Background(), r.ID)

	if len(store.Reminders()) != 0 {
		t.Fatal("reminder should be removed")
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != r.ID {
		t.Fatalf("cancelled = %v, want [%d]", sched.cancelled, r.ID)
	}
}

func TestReminderServiceRemoveSurvivesCancelFailure(t *testing.T) {
	store := reminders.NewStore()
	sched := &fakeScheduler{}
	svc := NewReminderService(store, sched)

	r, _ := svc.Create(context.Background(), "Insurance", "", time.Now().Add(time.Hour))
	sched.cancelErr = errors.New("broker down")
	svc.Remove(context.Background(), r.ID)

	if len(store.Reminders()) != 0 {
		t.Fatal("removal is local-first; a failed cancel must not keep the reminder")
	}
}

func TestReminderServiceNilSchedulerDefaultsToNoop(t *testing.T) {
	svc := NewReminderService(reminders.NewStore(), nil)

	if _, err := svc.Create(context.Background(), "x", "", time.Now()); err != nil {
		t.Fatalf("noop scheduler should never fail: %v", err)
	}
}
