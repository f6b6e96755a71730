package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 30, 0, 0, time.Local)
}

func TestPeriodWindowDaily(t *testing.T) {
	now := date(2025, time.March, 12, 15) // Wednesday
	start, end := PeriodWindow(Daily, now)

	wantStart := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("end = %v, want %v", end, wantStart.AddDate(0, 0, 1))
	}
}

func TestPeriodWindowWeekly(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		wantMonday time.Time
	}{
		{"wednesday", date(2025, time.March, 12, 15), time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)},
		{"monday", date(2025, time.March, 10, 9), time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)},
		{"sunday rolls back six days", date(2025, time.March, 16, 23), time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := PeriodWindow(Weekly, tc.now)
			if !start.Equal(tc.wantMonday) {
				t.Fatalf("start = %v, want %v", start, tc.wantMonday)
			}
			if !end.Equal(tc.wantMonday.AddDate(0, 0, 7)) {
				t.Fatalf("end = %v, want monday+7d", end)
			}
		})
	}
}

func TestPeriodWindowBiweekly(t *testing.T) {
	now := date(2025, time.March, 12, 15)
	start, end := PeriodWindow(Biweekly, now)
	wantMonday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantMonday) {
		t.Fatalf("start = %v, want %v", start, wantMonday)
	}
	if !end.Equal(wantMonday.AddDate(0, 0, 14)) {
		t.Fatalf("end = %v, want monday+14d", end)
	}
}

func TestPeriodWindowMonthly(t *testing.T) {
	now := date(2025, time.December, 31, 23)
	start, end := PeriodWindow(Monthly, now)

	wantStart := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", end, wantEnd)
	}
}

func TestGoalPeriodIsValid(t *testing.T) {
	for _, p := range Periods {
		if !p.IsValid() {
			t.Fatalf("%s should be valid", p)
		}
	}
	if GoalPeriod("yearly").IsValid() {
		t.Fatal("yearly should not be valid")
	}
}
