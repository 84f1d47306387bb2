package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrms/internal/platform/crypto"
)

type Service struct {
	store  StoreAPI
	crypto *crypto.Service
}

func NewService(store StoreAPI, sealer *crypto.Service) *Service {
	return &Service{store: store, crypto: sealer}
}

// Create provisions an employee record for an existing user. A user may own
// at most one employee record.
func (s *Service) Create(ctx context.Context, input EmployeeInput) (Employee, error) {
	input = normalize(input)
	exists, err := s.store.UserExists(ctx, input.UserID)
	if err != nil {
		return Employee{}, err
	}
	if !exists {
		return Employee{}, ErrUserNotFound
	}
	if _, err := s.store.GetEmployeeByUserID(ctx, input.UserID); err == nil {
		return Employee{}, ErrUserHasEmployee
	}

	bank, err := s.seal(input.BankAccount)
	if err != nil {
		return Employee{}, err
	}
	return s.store.CreateEmployee(ctx, input, bank)
}

// Update replaces the writable fields. An empty bank account keeps the stored one.
func (s *Service) Update(ctx context.Context, id string, input EmployeeInput) (Employee, error) {
	input = normalize(input)
	var bank *SealedBank
	if input.BankAccount != "" {
		sealed, err := s.seal(input.BankAccount)
		if err != nil {
			return Employee{}, err
		}
		bank = &sealed
	}
	return s.store.UpdateEmployee(ctx, id, input, bank)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	return s.store.GetEmployeeByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Employee, int, error) {
	total, err := s.store.CountEmployees(ctx)
	if err != nil {
		return nil, 0, err
	}
	employees, err := s.store.ListEmployees(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *Service) seal(account string) (SealedBank, error) {
	if account == "" {
		return SealedBank{}, nil
	}
	enc, err := s.crypto.EncryptString(account)
	if err != nil {
		return SealedBank{}, fmt.Errorf("seal bank account: %w", err)
	}
	return SealedBank{Ciphertext: enc, Last4: crypto.Last4(account)}, nil
}

func normalize(input EmployeeInput) EmployeeInput {
	input.EmployeeCode = strings.TrimSpace(input.EmployeeCode)
	input.Department = strings.TrimSpace(input.Department)
	input.Designation = strings.TrimSpace(input.Designation)
	input.BankAccount = strings.TrimSpace(input.BankAccount)
	y, m, d := input.JoinDate.Date()
	input.JoinDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return input
}
