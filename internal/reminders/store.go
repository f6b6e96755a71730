// Package reminders implements the in-memory reminder store.
//
// The store holds only logical records; registering and cancelling the
// OS-level notification belongs to the notify collaborator, driven by the
// service layer.
package reminders

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Store owns the reminder collection. Methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	reminders []core.Reminder
	lastID    int64

	now func() time.Time // swappable in tests
}

// NewStore returns an empty reminder store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add creates a reminder and returns it, ID included, for the caller to
// register with the external notifier. A blank title defaults to "Reminder".
// rawAmount is parsed as a plain decimal; parse failure means "no amount",
// never a hard error — the reminder is still created.
func (s *Store) Add(title, rawAmount string, dueAt time.Time) core.Reminder {
	if strings.TrimSpace(title) == "" {
		title = "Reminder"
	}
	var amount *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64); err == nil {
		amount = &v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r := core.Reminder{
		ID:     s.nextID(),
		Title:  title,
		Amount: amount,
		DueAt:  dueAt,
	}
	s.reminders = append([]core.Reminder{r}, s.reminders...)
	return r
}

// ToggleDone flips the done flag on the matching reminder and reports whether
// one was found.
func (s *Store) ToggleDone(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders[i].Done = !s.reminders[i].Done
			return true
		}
	}
	return false
}

// Remove deletes every reminder matching id.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reminders[:0]
	for _, r := range s.reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reminders = kept
}

// Reminders returns a copy of all reminders, most-recent-first.
func (s *Store) Reminders() []core.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// nextID mirrors the ledger's ID scheme: creation time in milliseconds,
// bumped to stay unique within the store. Callers must hold s.mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
