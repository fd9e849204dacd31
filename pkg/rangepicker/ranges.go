package rangepicker

import "time"

// DefinedRange is one of the shortcuts listed next to the calendar.
type DefinedRange struct {
	Label string
	Range func(now time.Time) (start, end time.Time)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// weeks start on sunday
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func DefaultRanges() []DefinedRange {
	return []DefinedRange{
		{"Today", func(now time.Time) (time.Time, time.Time) {
			return startOfDay(now), endOfDay(now)
		}},
		{"Yesterday", func(now time.Time) (time.Time, time.Time) {
			y := now.AddDate(0, 0, -1)
			return startOfDay(y), endOfDay(y)
		}},
		{"This Week", func(now time.Time) (time.Time, time.Time) {
			s := startOfWeek(now)
			return s, endOfDay(s.AddDate(0, 0, 6))
		}},
		{"Last Week", func(now time.Time) (time.Time, time.Time) {
			s := startOfWeek(now).AddDate(0, 0, -7)
			return s, endOfDay(s.AddDate(0, 0, 6))
		}},
		{"This Month", func(now time.Time) (time.Time, time.Time) {
			s := startOfMonth(now)
			return s, endOfDay(s.AddDate(0, 1, -1))
		}},
		{"Last Month", func(now time.Time) (time.Time, time.Time) {
			s := startOfMonth(now).AddDate(0, -1, 0)
			return s, endOfDay(s.AddDate(0, 1, -1))
		}},
	}
}
