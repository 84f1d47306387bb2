package leave

import "hrms/internal/platform/apperror"

var (
	ErrInvalidRange   = apperror.Validation("from date must be before to date")
	ErrPastStart      = apperror.Validation("from date must not be in the past")
	ErrReasonTooShort = apperror.Validation("reason must be at least 5 characters")
	ErrInvalidType    = apperror.Validation("unknown leave type")
	ErrNotFound       = apperror.NotFound("time off request not found")
	ErrNotPending     = apperror.Conflict("time off request is no longer pending")
)
