// Package ledger implements the in-memory transaction and tag store.
//
// The store owns both collections exclusively and derives the balance after
// every mutation. State lives only in memory for the process lifetime.
package ledger

import (
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

const (
	TransactionAdded   EventKind = "transaction_added"
	TransactionRemoved EventKind = "transaction_removed"
	TagAdded           EventKind = "tag_added"
	TagRemoved         EventKind = "tag_removed"
	FilterChanged      EventKind = "filter_changed"
)

// EventKind names one kind of store mutation.
type EventKind string

// Event describes a single mutation, delivered synchronously to subscribers
// after the mutation has been applied. ID is the affected entity's ID, or
// zero for filter changes.
type Event struct {
	Kind EventKind
	ID   int64
}

// Store holds transactions and tags and exposes add/remove/filter operations
// plus the derived balance. Methods are safe for concurrent use; every
// mutation is synchronous and the balance is recomputed before the call
// returns.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	tags         []core.Tag
	balance      float64
	filter       *string
	lastID       int64
	listeners    []func(Event)

	now func() time.Time // swappable in tests
}

// NewStore returns an empty ledger store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Subscribe registers fn to be called after every mutation. Intended for
// presentation-layer cache invalidation; fn must not block.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// emit delivers ev outside the store lock so listeners may read back.
func (s *Store) emit(ev Event) {
	s.mu.Lock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// nextID returns at's unix time in milliseconds, bumped to stay strictly
// monotonic when two entities are created within the same millisecond.
// Callers must hold s.mu.
func (s *Store) nextID(at time.Time) int64 {
	id := at.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// AddTransaction sanitizes and parses rawAmount (currency symbols and
// separators are stripped first), signs the magnitude negative when isExpense,
// and prepends the new transaction so the sequence stays most-recent-first.
// Nothing is mutated when the amount does not parse; the caller gets
// core.ErrInvalidAmount. A blank description defaults to "Expense" or
// "Income" to match the sign.
func (s *Store) AddTransaction(description, rawAmount string, isExpense bool, tags []string) (core.Transaction, error) {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, err
	}
	if isExpense {
		amount = -amount
	}
	if strings.TrimSpace(description) == "" {
		if isExpense {
			description = "Expense"
		} else {
			description = "Income"
		}
	}

	s.mu.Lock()
	createdAt := s.now()
	tx := core.Transaction{
		ID:          s.nextID(createdAt),
		CreatedAt:   createdAt,
		Description: description,
		Amount:      amount,
		Tags:        append([]string(nil), tags...),
	}
	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	s.recomputeBalance()
	s.mu.Unlock()

	s.emit(Event{Kind: TransactionAdded, ID: tx.ID})
	return tx, nil
}

// RemoveTransaction deletes every transaction matching id (IDs are expected
// unique; deletion is by predicate regardless) and recomputes the balance.
func (s *Store) RemoveTransaction(id int64) {
	s.mu.Lock()
	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	s.recomputeBalance()
	s.mu.Unlock()

	s.emit(Event{Kind: TransactionRemoved, ID: id})
}

// AddTag appends a new tag with a fresh ID. Names are not checked for
// uniqueness; duplicate names share transaction associations (see RemoveTag).
func (s *Store) AddTag(name string, color uint32) core.Tag {
	s.mu.Lock()
	tag := core.Tag{
		ID:    s.nextID(s.now()),
		Name:  name,
		Color: color,
	}
	s.tags = append(s.tags, tag)
	s.mu.Unlock()

	s.emit(Event{Kind: TagAdded, ID: tag.ID})
	return tag
}

// RemoveTag deletes the tag and strips its name from every transaction's tag
// set. Association is by name, not ID: tags are effectively deduplicated by
// name, so deleting one of two same-named tags strips the name everywhere.
func (s *Store) RemoveTag(id int64) {
	s.mu.Lock()
	name := ""
	found := false
	kept := s.tags[:0]
	for _, tag := range s.tags {
		if tag.ID == id {
			name = tag.Name
			found = true
			continue
		}
		kept = append(kept, tag)
	}
	s.tags = kept

	if found {
		for i, tx := range s.transactions {
			var tags []string
			for _, t := range tx.Tags {
				if t != name {
					tags = append(tags, t)
				}
			}
			s.transactions[i].Tags = tags
		}
	}
	s.mu.Unlock()

	s.emit(Event{Kind: TagRemoved, ID: id})
}

// SetTagFilter restricts FilteredTransactions to transactions carrying the
// named tag.
func (s *Store) SetTagFilter(name string) {
	s.mu.Lock()
	s.filter = &name
	s.mu.Unlock()

	s.emit(Event{Kind: FilterChanged})
}

// ClearTagFilter removes the active tag filter.
func (s *Store) ClearTagFilter() {
	s.mu.Lock()
	s.filter = nil
	s.mu.Unlock()

	s.emit(Event{Kind: FilterChanged})
}

// TagFilter returns the active filter name and whether one is set.
func (s *Store) TagFilter() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter == nil {
		return "", false
	}
	return *s.filter, true
}

// Transactions returns a copy of all transactions in store order
// (most-recent-first).
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// FilteredTransactions returns all transactions when no filter is set, or
// only those whose tag set contains the filter name, preserving store order.
func (s *Store) FilteredTransactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter == nil {
		out := make([]core.Transaction, len(s.transactions))
		copy(out, s.transactions)
		return out
	}
	out := make([]core.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if tx.HasTag(*s.filter) {
			out = append(out, tx)
		}
	}
	return out
}

// Tags returns a copy of all tags in creation order.
func (s *Store) Tags() []core.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Balance returns the derived balance: the sum of all transaction amounts.
// It is recomputed after every mutation and never independently settable.
func (s *Store) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// recomputeBalance must be called with s.mu held after every transaction
// mutation.
func (s *Store) recomputeBalance() {
	var sum float64
	for _, tx := range s.transactions {
		sum += tx.Amount
	}
	s.balance = sum
}
