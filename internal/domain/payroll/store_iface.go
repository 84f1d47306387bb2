package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	UnpaidSource

	// ListEligibleEmployees returns employees with join_date <= periodEnd in
	// a stable order.
	ListEligibleEmployees(ctx context.Context, periodEnd time.Time) ([]Employee, error)

	// CreatePayrun persists the header and all lines atomically. It returns
	// ErrPeriodAlreadyFinalized when a payrun exists for the same period.
	CreatePayrun(ctx context.Context, run Payrun, lines []PayrunLine) (Payrun, []PayrunLine, error)
	GetPayrun(ctx context.Context, id string) (Payrun, error)
	ListPayruns(ctx context.Context, filter ListFilter) ([]Payrun, int, error)
	// DeletePayrun removes a payrun that is not FINALIZED. It returns
	// ErrPayrunFinalized, leaving the payrun and its lines intact, otherwise.
	DeletePayrun(ctx context.Context, id string) error

	ListPayslipDocuments(ctx context.Context, payrunID string) ([]PayslipDocument, error)
	UpsertPayslip(ctx context.Context, lineID, filePath string, generatedAt time.Time) (Payslip, error)
	GetPayslip(ctx context.Context, id string) (Payslip, PayslipDocument, error)
}
