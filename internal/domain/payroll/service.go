package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/lock"
)

// Renderer writes one payslip document and returns where it was written.
type Renderer interface {
	Render(ctx context.Context, doc PayslipDocument) (string, error)
}

// Notifier tells one employee their payslip is ready.
type Notifier interface {
	NotifyPayslip(ctx context.Context, notice PayslipNotice) error
}

type PayslipNotice struct {
	PayrunID    string
	PayslipID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Net         float64
	Employee    EmployeeRef
}

// Recorder receives counters for payroll activity.
type Recorder interface {
	PayrunFinalized(payslips int)
	PayslipRendered()
	NotificationsFailed(n int)
}

type Options struct {
	DedupeUnpaidDays bool
	// RawLeaveWeekdays stops weekend-only leave from counting as a full
	// fallback month of unpaid days.
	RawLeaveWeekdays bool
	Renderer         Renderer
	Notifier         Notifier
	Locker           lock.Locker
	LockTTL          time.Duration
	Metrics          Recorder
}

type Service struct {
	store      StoreAPI
	aggregator *Aggregator
	renderer   Renderer
	notifier   Notifier
	locker     lock.Locker
	lockTTL    time.Duration
	metrics    Recorder
	now        func() time.Time
}

func NewService(store StoreAPI, opts Options) *Service {
	svc := &Service{
		store:      store,
		aggregator: NewAggregator(store, opts.DedupeUnpaidDays),
		renderer:   opts.Renderer,
		notifier:   opts.Notifier,
		locker:     opts.Locker,
		lockTTL:    opts.LockTTL,
		metrics:    opts.Metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
	svc.aggregator.RawLeaveWeekdays = opts.RawLeaveWeekdays
	if svc.locker == nil {
		svc.locker = lock.Noop{}
	}
	if svc.lockTTL <= 0 {
		svc.lockTTL = 2 * time.Minute
	}
	if svc.metrics == nil {
		svc.metrics = noopRecorder{}
	}
	return svc
}

func (s *Service) GetPayrun(ctx context.Context, id string) (Payrun, error) {
	if !validID(id) {
		return Payrun{}, ErrPayrunNotFound
	}
	return s.store.GetPayrun(ctx, id)
}

func (s *Service) ListPayruns(ctx context.Context, filter ListFilter) ([]Payrun, int, error) {
	return s.store.ListPayruns(ctx, filter)
}

func (s *Service) GetPayslip(ctx context.Context, id string) (Payslip, PayslipDocument, error) {
	if !validID(id) {
		return Payslip{}, PayslipDocument{}, ErrPayslipNotFound
	}
	return s.store.GetPayslip(ctx, id)
}

// DeletePayrun removes a non-finalized payrun together with its lines.
func (s *Service) DeletePayrun(ctx context.Context, id string) error {
	run, err := s.GetPayrun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status == StatusFinalized {
		return ErrPayrunFinalized
	}
	return s.store.DeletePayrun(ctx, id)
}

// Notify fans payslip notices out to employees. Failures are logged and
// reported per recipient; they never fail the batch.
func (s *Service) Notify(ctx context.Context, notices []PayslipNotice) []notifications.Outcome {
	if s.notifier == nil || len(notices) == 0 {
		return nil
	}
	deliveries := make([]notifications.Delivery[PayslipNotice], 0, len(notices))
	for _, notice := range notices {
		deliveries = append(deliveries, notifications.Delivery[PayslipNotice]{Recipient: notice.Employee.ID, Payload: notice})
	}
	outcomes := notifications.FanOut(ctx, deliveries, s.notifier.NotifyPayslip)
	if failed := notifications.Failed(outcomes); failed > 0 {
		s.metrics.NotificationsFailed(failed)
	}
	return outcomes
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

type noopRecorder struct{}

func (noopRecorder) PayrunFinalized(int)     {}
func (noopRecorder) PayslipRendered()        {}
func (noopRecorder) NotificationsFailed(int) {}
