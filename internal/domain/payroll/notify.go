package payroll

import (
	"context"
	"fmt"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/events"
	"hrms/internal/platform/money"
)

// MessageSender stores and emails one in-app notification.
type MessageSender interface {
	Send(ctx context.Context, msg notifications.Message) error
}

// PayslipNotifier tells an employee their payslip is ready and publishes a
// payslip event. Each step must succeed for the delivery to count.
type PayslipNotifier struct {
	messages  MessageSender
	publisher events.Publisher
}

func NewPayslipNotifier(messages MessageSender, publisher events.Publisher) *PayslipNotifier {
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &PayslipNotifier{messages: messages, publisher: publisher}
}

func (n *PayslipNotifier) NotifyPayslip(ctx context.Context, notice PayslipNotice) error {
	period := notice.PeriodStart.Format(dateLayout) + " to " + notice.PeriodEnd.Format(dateLayout)
	err := n.messages.Send(ctx, notifications.Message{
		UserID: notice.Employee.UserID,
		Email:  notice.Employee.Email,
		Type:   notifications.TypePayslipPublished,
		Title:  "Payslip available",
		Body:   fmt.Sprintf("Your payslip for %s is ready. Net pay: %.2f", period, money.Round2(notice.Net)),
	})
	if err != nil {
		return err
	}
	if err := n.publisher.PublishPayslipGenerated(ctx, events.PayslipGenerated{
		PayrunID:     notice.PayrunID,
		PayslipID:    notice.PayslipID,
		EmployeeID:   notice.Employee.ID,
		EmployeeCode: notice.Employee.EmployeeCode,
		PeriodStart:  notice.PeriodStart.Format(dateLayout),
		PeriodEnd:    notice.PeriodEnd.Format(dateLayout),
		Net:          notice.Net,
	}); err != nil {
		return fmt.Errorf("publish payslip event: %w", err)
	}
	return nil
}
