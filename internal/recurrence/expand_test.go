package recurrence

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d, hh int) time.Time {
	return time.Date(y, m, d, hh, 0, 0, 0, time.UTC)
}

func TestExpandDaily(t *testing.T) {
	first := day(2026, 1, 1, 9)
	out := Expand(Rule{Freq: Daily, Interval: 1}, first, first.Add(time.Hour),
		day(2026, 1, 1, 0), day(2026, 1, 6, 0))
	if len(out) != 5 {
		t.Fatalf("expected 5 occurrences, got %d", len(out))
	}
	for i, occ := range out {
		want := first.AddDate(0, 0, i)
		if !occ.Start.Equal(want) || !occ.End.Equal(want.Add(time.Hour)) {
			t.Fatalf("occurrence %d = %+v, want start %s", i, occ, want)
		}
	}
}

func TestExpandDailyInterval(t *testing.T) {
	first := day(2026, 1, 1, 9)
	out := Expand(Rule{Freq: Daily, Interval: 2}, first, first.Add(time.Hour),
		day(2026, 1, 1, 0), day(2026, 1, 6, 0))
	if len(out) != 3 {
		t.Fatalf("expected Jan 1/3/5, got %d occurrences", len(out))
	}
}

func TestExpandCountAndUntil(t *testing.T) {
	first := day(2026, 1, 1, 9)
	wideEnd := day(2026, 2, 1, 0)

	out := Expand(Rule{Freq: Daily, Interval: 1, Count: 3}, first, first.Add(time.Hour),
		day(2026, 1, 1, 0), wideEnd)
	if len(out) != 3 {
		t.Fatalf("COUNT=3 produced %d occurrences", len(out))
	}

	until := day(2026, 1, 3, 9) // inclusive bound
	out = Expand(Rule{Freq: Daily, Interval: 1, Until: &until}, first, first.Add(time.Hour),
		day(2026, 1, 1, 0), wideEnd)
	if len(out) != 3 {
		t.Fatalf("UNTIL produced %d occurrences, want 3", len(out))
	}
}

func TestExpandWeeklyByDay(t *testing.T) {
	first := day(2026, 1, 5, 18) // a Monday
	out := Expand(Rule{Freq: Weekly, Interval: 1, ByDay: []time.Weekday{time.Monday, time.Wednesday}},
		first, first.Add(time.Hour),
		day(2026, 1, 5, 0), day(2026, 1, 19, 0))
	if len(out) != 4 {
		t.Fatalf("expected Mon/Wed over two weeks (4), got %d", len(out))
	}
	wantDays := []int{5, 7, 12, 14}
	for i, occ := range out {
		if occ.Start.Day() != wantDays[i] {
			t.Fatalf("occurrence %d on day %d, want %d", i, occ.Start.Day(), wantDays[i])
		}
		if hh := occ.Start.Hour(); hh != 18 {
			t.Fatalf("occurrence %d keeps the clock of the first start; hour = %d", i, hh)
		}
	}
}

func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	first := day(2026, 1, 31, 8)
	out := Expand(Rule{Freq: Monthly, Interval: 1}, first, first.Add(time.Hour),
		day(2026, 1, 1, 0), day(2026, 6, 1, 0))
	wantMonths := []time.Month{time.January, time.March, time.May}
	if len(out) != len(wantMonths) {
		t.Fatalf("expected %d occurrences, got %d", len(wantMonths), len(out))
	}
	for i, occ := range out {
		if occ.Start.Month() != wantMonths[i] || occ.Start.Day() != 31 {
			t.Fatalf("occurrence %d = %s", i, occ.Start)
		}
	}
}

func TestExpandYearlyLeapDay(t *testing.T) {
	first := day(2024, 2, 29, 12)
	out := Expand(Rule{Freq: Yearly, Interval: 1}, first, first.Add(time.Hour),
		day(2024, 1, 1, 0), day(2033, 1, 1, 0))
	wantYears := []int{2024, 2028, 2032}
	if len(out) != len(wantYears) {
		t.Fatalf("expected %d leap-day occurrences, got %d", len(wantYears), len(out))
	}
	for i, occ := range out {
		if occ.Start.Year() != wantYears[i] || occ.Start.Day() != 29 {
			t.Fatalf("occurrence %d = %s", i, occ.Start)
		}
	}
}

func TestExpandWindowFiltering(t *testing.T) {
	first := day(2026, 1, 1, 9)
	out := Expand(Rule{Freq: Daily, Interval: 1}, first, first.Add(time.Hour),
		day(2026, 1, 3, 0), day(2026, 1, 5, 0))
	if len(out) != 2 {
		t.Fatalf("expected only Jan 3 and 4 inside the window, got %d", len(out))
	}
	if out[0].Start.Day() != 3 || out[1].Start.Day() != 4 {
		t.Fatalf("unexpected days: %s, %s", out[0].Start, out[1].Start)
	}
}
