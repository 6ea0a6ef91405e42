package recurrence

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Rule
	}{
		{
			name: "daily",
			raw:  "FREQ=DAILY",
			want: Rule{Freq: Daily, Interval: 1},
		},
		{
			name: "weekly with days and interval",
			raw:  "FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=2",
			want: Rule{Freq: Weekly, Interval: 2, ByDay: []time.Weekday{time.Monday, time.Wednesday}},
		},
		{
			name: "monthly with count",
			raw:  "FREQ=MONTHLY;BYMONTHDAY=15;COUNT=3",
			want: Rule{Freq: Monthly, Interval: 1, ByMonthDay: 15, Count: 3},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.raw, err)
			}
			if got.Freq != tc.want.Freq || got.Interval != tc.want.Interval ||
				got.ByMonthDay != tc.want.ByMonthDay || got.Count != tc.want.Count {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
			if len(got.ByDay) != len(tc.want.ByDay) {
				t.Fatalf("ByDay = %v, want %v", got.ByDay, tc.want.ByDay)
			}
			for i := range got.ByDay {
				if got.ByDay[i] != tc.want.ByDay[i] {
					t.Fatalf("ByDay = %v, want %v", got.ByDay, tc.want.ByDay)
				}
			}
		})
	}
}

func TestParseUntilFormats(t *testing.T) {
	r, err := Parse("FREQ=DAILY;UNTIL=20260115T090000Z")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	if r.Until == nil || !r.Until.Equal(want) {
		t.Fatalf("Until = %v, want %v", r.Until, want)
	}

	r, err = Parse("FREQ=DAILY;UNTIL=20260115")
	if err != nil {
		t.Fatalf("Parse (date only): %v", err)
	}
	if r.Until == nil || r.Until.Day() != 15 {
		t.Fatalf("Until = %v", r.Until)
	}
}

func TestParseErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"INTERVAL=2",
		"FREQ=SOMETIMES",
		"FREQ=WEEKLY;BYDAY=XX",
		"FREQ=DAILY;INTERVAL=0",
		"FREQ=DAILY;BYMONTHDAY=40",
		"FREQ=DAILY;COUNT=-1",
		"FREQ=DAILY;UNTIL=notadate",
		"FREQ=DAILY;SNOOZE=1",
		"garbage",
	} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"FREQ=DAILY",
		"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
		"FREQ=MONTHLY;BYMONTHDAY=15;COUNT=3",
		"FREQ=YEARLY;UNTIL=20300101T000000Z",
	} {
		rule, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		again, err := Parse(rule.String())
		if err != nil {
			t.Fatalf("Parse(String()) for %q: %v", raw, err)
		}
		if again.String() != rule.String() {
			t.Fatalf("round trip changed %q -> %q", rule.String(), again.String())
		}
	}
}

func TestFromModel(t *testing.T) {
	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	m := &types.RecurrenceRule{
		Frequency:  "weekly",
		Interval:   2,
		ByWeekdays: datatypes.JSON([]byte(`["MO","FR"]`)),
		Count:      10,
		Until:      &until,
	}
	r, err := FromModel(m)
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	if r.Freq != Weekly || r.Interval != 2 || r.Count != 10 {
		t.Fatalf("unexpected rule: %+v", r)
	}
	if len(r.ByDay) != 2 || r.ByDay[0] != time.Monday || r.ByDay[1] != time.Friday {
		t.Fatalf("ByDay = %v", r.ByDay)
	}

	// a custom rule string wins over the structured columns
	m.CustomRule = "FREQ=DAILY"
	r, err = FromModel(m)
	if err != nil {
		t.Fatalf("FromModel (custom): %v", err)
	}
	if r.Freq != Daily {
		t.Fatalf("custom rule ignored: %+v", r)
	}

	if _, err := FromModel(nil); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, err := FromModel(&types.RecurrenceRule{Frequency: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown frequency")
	}
}
