package payroll

import "time"

// WorkingDays counts Monday to Friday between start and end inclusive. A range
// with no weekdays, including an inverted one, yields FallbackWorkingDays.
func WorkingDays(start, end time.Time) int {
	if n := weekdaysBetween(start, end); n > 0 {
		return n
	}
	return FallbackWorkingDays
}

func weekdaysBetween(start, end time.Time) int {
	n := 0
	forEachWeekday(start, end, func(time.Time) { n++ })
	return n
}

func forEachWeekday(start, end time.Time, fn func(day time.Time)) {
	last := dateOnly(end)
	for day := dateOnly(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		fn(day)
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
