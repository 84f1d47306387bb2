package core

import "hrms/internal/platform/apperror"

var (
	ErrEmployeeNotFound   = apperror.NotFound("employee not found")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrUserHasEmployee    = apperror.Conflict("user already has an employee record")
	ErrEmployeeCodeExists = apperror.Conflict("employee code already in use")
)
