package leave

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MinReasonLength = 5

// Validate checks a new request against today's date (time of day ignored).
func Validate(req Request, today time.Time) error {
	if !ValidType(req.Type) {
		return ErrInvalidType
	}
	from, to := dateOnly(req.From), dateOnly(req.To)
	if !from.Before(to) {
		return ErrInvalidRange
	}
	if from.Before(dateOnly(today)) {
		return ErrPastStart
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Reason)) < MinReasonLength {
		return ErrReasonTooShort
	}
	return nil
}

func ValidType(t Type) bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}

// CanDecide reports whether a request in status may move to next.
// Only PENDING requests move, and only to APPROVED or REJECTED.
func CanDecide(current, next Status) bool {
	return current == StatusPending && (next == StatusApproved || next == StatusRejected)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
