package recurrence

import "time"

type Occurrence struct {
	Start time.Time
	End   time.Time
}

// hard cap so a malformed rule can never spin forever
const maxOccurrences = 10000

// Expand generates the occurrences of a recurring span within
// [rangeStart, rangeEnd). firstStart/firstEnd define the initial occurrence;
// the gap between them fixes the duration of every occurrence.
func Expand(rule Rule, firstStart, firstEnd time.Time, rangeStart, rangeEnd time.Time) []Occurrence {
	duration := firstEnd.Sub(firstStart)
	starts := expandStarts(rule, firstStart, rangeEnd)

	var out []Occurrence
	for _, s := range starts {
		e := s.Add(duration)
		if s.Before(rangeEnd) && e.After(rangeStart) {
			out = append(out, Occurrence{Start: s, End: e})
		}
	}
	return out
}

func expandStarts(rule Rule, first, rangeEnd time.Time) []time.Time {
	var out []time.Time
	emit := func(t time.Time) bool {
		if rule.Until != nil && t.After(*rule.Until) {
			return false
		}
		if !t.Before(rangeEnd) {
			return false
		}
		out = append(out, t)
		if rule.Count > 0 && len(out) >= rule.Count {
			return false
		}
		return len(out) < maxOccurrences
	}

	switch rule.Freq {
	case Daily:
		for t := first; emit(t); t = t.AddDate(0, 0, rule.Interval) {
		}
	case Weekly:
		if len(rule.ByDay) == 0 {
			for t := first; emit(t); t = t.AddDate(0, 0, 7*rule.Interval) {
			}
			break
		}
		wantDay := make(map[time.Weekday]bool, len(rule.ByDay))
		for _, d := range rule.ByDay {
			wantDay[d] = true
		}
	weeks:
		for week := startOfWeek(first); ; week = week.AddDate(0, 0, 7*rule.Interval) {
			for i := 0; i < 7; i++ {
				day := week.AddDate(0, 0, i)
				if !wantDay[day.Weekday()] {
					continue
				}
				t := withClock(day, first)
				if t.Before(first) {
					continue
				}
				if !emit(t) {
					break weeks
				}
			}
		}
	case Monthly:
		wantDay := rule.ByMonthDay
		if wantDay == 0 {
			wantDay = first.Day()
		}
		t := first
		for emit(t) {
			next := t.AddDate(0, rule.Interval, 0)
			// skip months too short for the requested day
			for daysInMonth(next.Year(), next.Month()) < wantDay {
				next = next.AddDate(0, rule.Interval, 0)
			}
			t = time.Date(next.Year(), next.Month(), wantDay,
				first.Hour(), first.Minute(), first.Second(), 0, first.Location())
		}
	case Yearly:
		t := first
		for emit(t) {
			next := t.AddDate(rule.Interval, 0, 0)
			if first.Month() == time.February && first.Day() == 29 {
				// skip years without a Feb 29
				year := t.Year() + rule.Interval
				for daysInMonth(year, time.February) < 29 {
					year += rule.Interval
				}
				next = time.Date(year, time.February, 29,
					first.Hour(), first.Minute(), first.Second(), 0, first.Location())
			}
			t = next
		}
	}
	return out
}

// startOfWeek returns midnight on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

func withClock(day, clockFrom time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clockFrom.Hour(), clockFrom.Minute(), clockFrom.Second(), 0, clockFrom.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
