package recurrence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/homeslice-backend/internal/types"
)

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
	Yearly
)

var freqNames = map[Freq]string{
	Daily:   "DAILY",
	Weekly:  "WEEKLY",
	Monthly: "MONTHLY",
	Yearly:  "YEARLY",
}

var freqFromName = map[string]Freq{
	"DAILY":   Daily,
	"WEEKLY":  Weekly,
	"MONTHLY": Monthly,
	"YEARLY":  Yearly,
}

var dayFromAbbrev = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var abbrevFromDay = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// Rule is the in-memory form of a recurrence schedule. The persisted
// types.RecurrenceRule entity converts to and from it.
type Rule struct {
	Freq       Freq
	Interval   int            // 1 = every period, 2 = every other, ...
	ByDay      []time.Weekday // WEEKLY only; empty = same weekday as start
	ByMonthDay int            // MONTHLY only; 0 = same day-of-month as start
	Count      int            // 0 = unlimited
	Until      *time.Time
}

// Parse reads an RRULE-style string like "FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=2".
func Parse(raw string) (Rule, error) {
	if strings.TrimSpace(raw) == "" {
		return Rule{}, fmt.Errorf("empty rule")
	}

	r := Rule{Interval: 1}
	var hasFreq bool

	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Rule{}, fmt.Errorf("invalid rule part: %q", part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "FREQ":
			f, ok := freqFromName[val]
			if !ok {
				return Rule{}, fmt.Errorf("unknown frequency: %q", val)
			}
			r.Freq = f
			hasFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, fmt.Errorf("invalid interval: %q", val)
			}
			r.Interval = n
		case "BYDAY":
			for _, d := range strings.Split(val, ",") {
				wd, ok := dayFromAbbrev[strings.TrimSpace(d)]
				if !ok {
					return Rule{}, fmt.Errorf("unknown day: %q", d)
				}
				r.ByDay = append(r.ByDay, wd)
			}
		case "BYMONTHDAY":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 31 {
				return Rule{}, fmt.Errorf("invalid BYMONTHDAY: %q", val)
			}
			r.ByMonthDay = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, fmt.Errorf("invalid count: %q", val)
			}
			r.Count = n
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", val)
			if err != nil {
				t, err = time.Parse("20060102", val)
				if err != nil {
					return Rule{}, fmt.Errorf("invalid UNTIL: %q", val)
				}
			}
			r.Until = &t
		default:
			return Rule{}, fmt.Errorf("unsupported rule key: %q", key)
		}
	}

	if !hasFreq {
		return Rule{}, fmt.Errorf("FREQ is required")
	}
	return r, nil
}

func (r Rule) String() string {
	parts := []string{"FREQ=" + freqNames[r.Freq]}
	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}
	if len(r.ByDay) > 0 {
		days := make([]string, 0, len(r.ByDay))
		for _, d := range r.ByDay {
			days = append(days, abbrevFromDay[d])
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if r.ByMonthDay > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", r.ByMonthDay))
	}
	if r.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", r.Count))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.Format("20060102T150405Z"))
	}
	return strings.Join(parts, ";")
}

// FromModel converts the persisted entity into a Rule. A non-empty CustomRule
// string wins over the structured columns.
func FromModel(m *types.RecurrenceRule) (Rule, error) {
	if m == nil {
		return Rule{}, fmt.Errorf("nil recurrence rule")
	}
	if strings.TrimSpace(m.CustomRule) != "" {
		return Parse(m.CustomRule)
	}

	f, ok := freqFromName[strings.ToUpper(strings.TrimSpace(m.Frequency))]
	if !ok {
		return Rule{}, fmt.Errorf("unknown frequency: %q", m.Frequency)
	}
	r := Rule{Freq: f, Interval: m.Interval, Count: m.Count, Until: m.Until}
	if r.Interval < 1 {
		r.Interval = 1
	}

	if len(m.ByWeekdays) > 0 {
		var abbrevs []string
		if err := json.Unmarshal(m.ByWeekdays, &abbrevs); err != nil {
			return Rule{}, fmt.Errorf("decode by_weekdays: %w", err)
		}
		for _, a := range abbrevs {
			wd, ok := dayFromAbbrev[strings.ToUpper(strings.TrimSpace(a))]
			if !ok {
				return Rule{}, fmt.Errorf("unknown weekday: %q", a)
			}
			r.ByDay = append(r.ByDay, wd)
		}
	}
	if len(m.ByMonthDays) > 0 {
		var days []int
		if err := json.Unmarshal(m.ByMonthDays, &days); err != nil {
			return Rule{}, fmt.Errorf("decode by_month_days: %w", err)
		}
		if len(days) > 0 {
			r.ByMonthDay = days[0]
		}
	}
	return r, nil
}
