// Package core holds the domain model shared by the ledger, goal, reminder
// and receipt-scanning components.
package core

import "time"

const (
	Daily    GoalPeriod = "daily"
	Weekly   GoalPeriod = "weekly"
	Biweekly GoalPeriod = "biweekly"
	Monthly  GoalPeriod = "monthly"
)

// GoalPeriod identifies one of the spending-cap windows.
type GoalPeriod string

// Periods lists every goal period in display order.
var Periods = []GoalPeriod{Daily, Weekly, Biweekly, Monthly}

// IsValid returns true if the period is one of the four known windows.
func (p GoalPeriod) IsValid() bool {
	switch p {
	case Daily, Weekly, Biweekly, Monthly:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (p GoalPeriod) String() string {
	return string(p)
}

// Transaction is a single ledger entry. Amount is signed: negative is an
// expense, positive is income. ID is the creation time in milliseconds and is
// unique within a store; CreatedAt carries the same instant explicitly so
// time-window queries never depend on the identifier encoding.
type Transaction struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Tags        []string  `json:"tags"`
}

// IsExpense reports whether the entry reduces the balance.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// HasTag reports whether the transaction carries the named tag.
func (t Transaction) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// Tag is a user-defined label. Color is a packed 32-bit ARGB value. Names are
// unique by convention only: transactions reference tags by name, not by ID.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color uint32 `json:"color"`
}

// Reminder is a scheduled user note, optionally tied to an amount. Delivery
// is delegated to an external notifier; the record held here is purely
// logical.
type Reminder struct {
	ID     int64     `json:"id"`
	Title  string    `json:"title"`
	Amount *float64  `json:"amount,omitempty"`
	DueAt  time.Time `json:"due_at"`
	Done   bool      `json:"done"`
}

// Candidate is one (amount, description) pair extracted from receipt text,
// scored with a heuristic confidence in [0, 1].
type Candidate struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}
