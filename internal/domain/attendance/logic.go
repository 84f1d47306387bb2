package attendance

import (
	"time"

	"hrms/internal/platform/money"
)

// TotalHours is the worked span in hours, rounded half-up to two decimals.
func TotalHours(checkIn, checkOut time.Time) (float64, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrCheckOutBeforeIn
	}
	return money.Round2(checkOut.Sub(checkIn).Hours()), nil
}

// WorkDate is the calendar date a timestamp is attributed to.
func WorkDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
