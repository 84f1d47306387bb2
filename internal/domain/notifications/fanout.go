package notifications

import (
	"context"
	"log/slog"
)

// Delivery pairs a recipient with what to send them.
type Delivery[T any] struct {
	Recipient string
	Payload   T
}

type Outcome struct {
	Recipient string `json:"recipient"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// FanOut dispatches every delivery in order. A failed dispatch is logged and
// recorded in its Outcome; it never stops the remaining deliveries.
func FanOut[T any](ctx context.Context, deliveries []Delivery[T], dispatch func(context.Context, T) error) []Outcome {
	outcomes := make([]Outcome, 0, len(deliveries))
	for _, d := range deliveries {
		outcome := Outcome{Recipient: d.Recipient, Delivered: true}
		if err := dispatchSafely(ctx, d.Payload, dispatch); err != nil {
			slog.Warn("notification dispatch failed", "recipient", d.Recipient, "err", err)
			outcome.Delivered = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Delivered {
			n++
		}
	}
	return n
}

func dispatchSafely[T any](ctx context.Context, payload T, dispatch func(context.Context, T) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicError{value: p}
		}
	}()
	return dispatch(ctx, payload)
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return "dispatch panicked"
}
