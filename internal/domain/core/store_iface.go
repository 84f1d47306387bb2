package core

import "context"

type StoreAPI interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	CreateEmployee(ctx context.Context, input EmployeeInput, bank SealedBank) (Employee, error)
	UpdateEmployee(ctx context.Context, id string, input EmployeeInput, bank *SealedBank) (Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error)
	CountEmployees(ctx context.Context) (int, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error)
}
