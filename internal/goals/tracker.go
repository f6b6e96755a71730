// Package goals tracks per-period spending caps against ledger activity.
package goals

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

// TransactionSource supplies the transaction snapshot the tracker sums over.
// The ledger store satisfies it.
type TransactionSource interface {
	Transactions() []core.Transaction
}

// Tracker holds one non-negative spending cap per goal period. Zero means "no
// goal set". The tracker owns only the caps; transactions stay with the
// ledger.
type Tracker struct {
	mu     sync.Mutex
	caps   map[core.GoalPeriod]float64
	source TransactionSource

	now func() time.Time // swappable in tests
}

// NewTracker returns a tracker with no goals set.
func NewTracker(source TransactionSource) *Tracker {
	return &Tracker{
		caps:   make(map[core.GoalPeriod]float64),
		source: source,
		now:    time.Now,
	}
}

// SetGoal parses rawAmount as a plain decimal and stores it as the cap for
// the period, clamped to non-negative. Unparseable input is silently ignored
// and the existing cap is retained; zero clears the goal.
func (t *Tracker) SetGoal(period core.GoalPeriod, rawAmount string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64)
	if err != nil {
		return
	}
	if v < 0 {
		v = 0
	}

	t.mu.Lock()
	t.caps[period] = v
	t.mu.Unlock()
}

// Goal returns the cap for the period; zero means no goal is set.
func (t *Tracker) Goal(period core.GoalPeriod) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.caps[period]
}

// SpentFor sums the absolute value of every expense whose creation time falls
// inside the current period window, in local time. Income is excluded. The
// result is stable between ledger mutations.
func (t *Tracker) SpentFor(period core.GoalPeriod) float64 {
	start, end := core.PeriodWindow(period, t.now())

	var spent float64
	for _, tx := range t.source.Transactions() {
		if tx.Amount >= 0 {
			continue
		}
		if tx.CreatedAt.Before(start) || !tx.CreatedAt.Before(end) {
			continue
		}
		spent += -tx.Amount
	}
	return spent
}
