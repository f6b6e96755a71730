package reminders

import (
	"testing"
	"time"
)

func due() time.Time {
	return time.Date(2025, time.June, 12, 9, 0, 0, 0, time.Local)
}

func TestAddDefaultsAndAmount(t *testing.T) {
	s := NewStore()

	r := s.Add("  ", "12.50", due())
	if r.Title != "Reminder" {
		t.Fatalf("blank title should default to Reminder, got %q", r.Title)
	}
	if r.Amount == nil || *r.Amount != 12.50 {
		t.Fatalf("amount = %v, want 12.50", r.Amount)
	}
	if r.Done {
		t.Fatal("new reminders start not done")
	}

	// A bad amount is "no amount", never a failure.
	r2 := s.Add("rent", "soon", due())
	if r2.Amount != nil {
		t.Fatalf("unparseable amount should be nil, got %v", *r2.Amount)
	}
	r3 := s.Add("rent", "", due())
	if r3.Amount != nil {
		t.Fatal("empty amount should be nil")
	}
}

func TestAddPrependsAndReturnsUniqueIDs(t *testing.T) {
	s := NewStore()
	frozen := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.Local)
	s.now = func() time.Time { return frozen }

	a := s.Add("first", "", due())
	b := s.Add("second", "", due())
	if b.ID <= a.ID {
		t.Fatalf("ids must stay unique within the same millisecond: %d then %d", a.ID, b.ID)
	}

	got := s.Reminders()
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("expected most-recent-first order, got %+v", got)
	}
}

func TestToggleDone(t *testing.T) {
	s := NewStore()
	r := s.Add("rent", "", due())

	if !s.ToggleDone(r.ID) {
		t.Fatal("toggle should find the reminder")
	}
	if !s.Reminders()[0].Done {
		t.Fatal("reminder should be done after one toggle")
	}
	s.ToggleDone(r.ID)
	if s.Reminders()[0].Done {
		t.Fatal("reminder should be not done after two toggles")
	}

	if s.ToggleDone(999) {
		t.Fatal("toggle on unknown id should report false")
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	r := s.Add("rent", "", due())
	s.Add("insurance", "", due())

	s.Remove(r.ID)
	got := s.Reminders()
	if len(got) != 1 || got[0].Title != "insurance" {
		t.Fatalf("after remove = %+v", got)
	}

	s.Remove(999) // unknown id is a no-op
	if len(s.Reminders()) != 1 {
		t.Fatal("unknown id must not remove anything")
	}
}
