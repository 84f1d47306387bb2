package shared

import (
	"net/http"
	"time"

	"hrms/internal/requestctx"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns the UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		if parsed, err = time.Parse(time.DateOnly, value); err != nil {
			return time.Time{}, err
		}
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func requestIDFrom(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
