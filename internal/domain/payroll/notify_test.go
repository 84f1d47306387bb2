package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/events"
)

type recordingSender struct {
	messages []notifications.Message
	err      error
}

func (r *recordingSender) Send(_ context.Context, msg notifications.Message) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

type recordingPublisher struct {
	events []events.PayslipGenerated
	err    error
}

func (r *recordingPublisher) PublishPayslipGenerated(_ context.Context, event events.PayslipGenerated) error {
	r.events = append(r.events, event)
	return r.err
}

func sampleNotice() PayslipNotice {
	return PayslipNotice{
		PayrunID:    "run-1",
		PayslipID:   "slip-1",
		PeriodStart: day("2024-01-01"),
		PeriodEnd:   day("2024-01-31"),
		Net:         28591.3,
		Employee:    EmployeeRef{ID: "e1", UserID: "u1", Email: "e1@example.com", EmployeeCode: "EMP001"},
	}
}

func TestPayslipNotifierSendsMessageAndEvent(t *testing.T) {
	sender := &recordingSender{}
	publisher := &recordingPublisher{}

	err := NewPayslipNotifier(sender, publisher).NotifyPayslip(context.Background(), sampleNotice())
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "u1", sender.messages[0].UserID)
	assert.Contains(t, sender.messages[0].Body, "2024-01-01 to 2024-01-31")
	assert.Contains(t, sender.messages[0].Body, "28591.30")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "EMP001", publisher.events[0].EmployeeCode)
	assert.Equal(t, "2024-01-31", publisher.events[0].PeriodEnd)
}

func TestPayslipNotifierFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	publisher := &recordingPublisher{}
	err := NewPayslipNotifier(sender, publisher).NotifyPayslip(context.Background(), sampleNotice())
	assert.ErrorContains(t, err, "smtp down")
	assert.Empty(t, publisher.events)

	publisher = &recordingPublisher{err: errors.New("broker unreachable")}
	err = NewPayslipNotifier(&recordingSender{}, publisher).NotifyPayslip(context.Background(), sampleNotice())
	assert.ErrorContains(t, err, "broker unreachable")
}
