package payroll

import "hrms/internal/platform/apperror"

var (
	ErrInvalidPeriod          = apperror.Validation("periodStart must be on or before periodEnd")
	ErrPayrunNotFound         = apperror.NotFound("payrun not found")
	ErrPayslipNotFound        = apperror.NotFound("payslip not found")
	ErrEmployeeNotFound       = apperror.NotFound("employee not found")
	ErrPayrunFinalized        = apperror.Conflict("cannot delete a finalized payrun")
	ErrPeriodAlreadyFinalized = apperror.Conflict("a payrun already exists for this period")
	ErrFinalizeInProgress     = apperror.Conflict("payroll for this period is being finalized")
	ErrNoEligibleEmployees    = apperror.Validation("no payroll lines to finalize")
	ErrDuplicateLine          = apperror.Validation("payroll data lists an employee more than once")
)
