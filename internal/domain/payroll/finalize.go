package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/lock"
)

type FinalizeInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	// Lines, when nil, are recomputed from current data.
	Lines     []LineDraft
	CreatedBy string
}

type FinalizeResult struct {
	Payrun        Payrun                  `json:"payrun"`
	Payslips      []Payslip               `json:"payslips"`
	Summary       Summary                 `json:"summary"`
	Notifications []notifications.Outcome `json:"notifications"`
}

// Remarks is the free-text note stored on each line.
func Remarks(line LineDraft) string {
	return fmt.Sprintf("Working days: %d, Unpaid days: %d", line.ActualWorkingDays, line.UnpaidDays)
}

// Finalize persists drafts as one FINALIZED payrun. Header and lines are
// written atomically; a second finalize for the same period fails with a
// conflict, whether it races on the period lock or on the stored payrun.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (Payrun, []PayrunLine, error) {
	start, end := dateOnly(in.PeriodStart), dateOnly(in.PeriodEnd)
	if start.After(end) {
		return Payrun{}, nil, ErrInvalidPeriod
	}

	release, err := s.locker.Acquire(ctx, periodLockKey(start, end), s.lockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return Payrun{}, nil, ErrFinalizeInProgress
	}
	if err != nil {
		return Payrun{}, nil, fmt.Errorf("acquire period lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("release payroll period lock failed", "period_start", start.Format(dateLayout), "err", err)
		}
	}()

	drafts := in.Lines
	if drafts == nil {
		if drafts, err = s.Compute(ctx, start, end); err != nil {
			return Payrun{}, nil, err
		}
	}
	if len(drafts) == 0 {
		return Payrun{}, nil, ErrNoEligibleEmployees
	}
	seen := make(map[string]struct{}, len(drafts))
	for _, draft := range drafts {
		if _, dup := seen[draft.EmployeeID]; dup {
			return Payrun{}, nil, ErrDuplicateLine
		}
		seen[draft.EmployeeID] = struct{}{}
	}

	summary := Summarize(drafts)
	run := Payrun{
		PeriodStart:     start,
		PeriodEnd:       end,
		Status:          StatusFinalized,
		TotalGross:      summary.TotalGross,
		TotalDeductions: summary.TotalDeductions,
		TotalNet:        summary.TotalNet,
		CreatedBy:       in.CreatedBy,
	}
	lines := make([]PayrunLine, 0, len(drafts))
	for _, draft := range drafts {
		lines = append(lines, PayrunLine{
			EmployeeID:      draft.EmployeeID,
			Gross:           draft.Gross,
			UnpaidDeduction: draft.UnpaidDeduction,
			PFEmployee:      draft.PFEmployee,
			ProfessionalTax: draft.ProfessionalTax,
			OtherDeductions: draft.OtherDeductions,
			Net:             draft.Net,
			Remarks:         Remarks(draft),
		})
	}

	return s.store.CreatePayrun(ctx, run, lines)
}

// Run is the full finalize flow: persist, render every payslip, then notify
// employees best-effort. When rendering fails the payrun stays committed and
// CompletePayrun finishes it.
func (s *Service) Run(ctx context.Context, in FinalizeInput) (FinalizeResult, error) {
	run, lines, err := s.Finalize(ctx, in)
	if err != nil {
		return FinalizeResult{}, err
	}
	run.Lines = lines
	return s.publish(ctx, run)
}

// CompletePayrun renders and announces the payslips of a payrun that is
// already finalized. Existing payslips are replaced.
func (s *Service) CompletePayrun(ctx context.Context, payrunID string) (FinalizeResult, error) {
	run, err := s.GetPayrun(ctx, payrunID)
	if err != nil {
		return FinalizeResult{}, err
	}

	release, err := s.locker.Acquire(ctx, periodLockKey(run.PeriodStart, run.PeriodEnd), s.lockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return FinalizeResult{}, ErrFinalizeInProgress
	}
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("acquire period lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("release payroll period lock failed", "payrun_id", run.ID, "err", err)
		}
	}()

	return s.publish(ctx, run)
}

func (s *Service) publish(ctx context.Context, run Payrun) (FinalizeResult, error) {
	payslips, docs, err := s.generatePayslips(ctx, run.ID)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("generate payslips for payrun %s: %w", run.ID, err)
	}
	s.metrics.PayrunFinalized(len(payslips))

	notices := make([]PayslipNotice, 0, len(payslips))
	for i, doc := range docs {
		p := payslips[i]
		notices = append(notices, PayslipNotice{
			PayrunID:    run.ID,
			PayslipID:   p.ID,
			PeriodStart: run.PeriodStart,
			PeriodEnd:   run.PeriodEnd,
			Net:         doc.Line.Net,
			Employee:    doc.Employee,
		})
	}

	return FinalizeResult{
		Payrun:        run,
		Payslips:      payslips,
		Summary:       summaryFromRun(run),
		Notifications: s.Notify(ctx, notices),
	}, nil
}

func summaryFromRun(run Payrun) Summary {
	return Summary{
		TotalEmployees:  len(run.Lines),
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
	}
}

func periodLockKey(start, end time.Time) string {
	return "payroll:finalize:" + start.Format(dateLayout) + ":" + end.Format(dateLayout)
}
