package core

import "time"

// PeriodWindow returns the half-open [start, end) window containing now for
// the given goal period, in now's location. Weekly and biweekly windows start
// on the most recent Monday; monthly windows on the first of the month.
func PeriodWindow(p GoalPeriod, now time.Time) (start, end time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case Weekly:
		monday := startOfDay.AddDate(0, 0, -mondayOffset(now.Weekday()))
		return monday, monday.AddDate(0, 0, 7)
	case Biweekly:
		monday := startOfDay.AddDate(0, 0, -mondayOffset(now.Weekday()))
		return monday, monday.AddDate(0, 0, 14)
	case Monthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0)
	default:
		// Daily, and the safe fallback for unknown periods.
		return startOfDay, startOfDay.AddDate(0, 0, 1)
	}
}

// mondayOffset is the number of days back from d to the most recent Monday.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}
