package attendance

import "hrms/internal/platform/apperror"

var (
	ErrNotFound          = apperror.NotFound("attendance record not found")
	ErrAlreadyCheckedIn  = apperror.Conflict("already checked in for this date")
	ErrNotCheckedIn      = apperror.Conflict("check-in required before check-out")
	ErrAlreadyCheckedOut = apperror.Conflict("already checked out for this date")
	ErrCheckOutBeforeIn  = apperror.Validation("check-out must be after check-in")
)
