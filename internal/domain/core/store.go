package core

import (
	"context"

	"hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const employeeColumns = `
    e.id, e.user_id, u.name, u.email, e.employee_code, e.department, e.designation,
    e.base_salary, e.allowances, e.pf_applicable, e.professional_tax_applicable,
    e.join_date, e.bank_account_last4, e.created_at, e.updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var emp Employee
	var last4 string
	err := row.Scan(&emp.ID, &emp.UserID, &emp.Name, &emp.Email, &emp.EmployeeCode, &emp.Department, &emp.Designation,
		&emp.BaseSalary, &emp.Allowances, &emp.PFApplicable, &emp.ProfessionalTaxApplicable,
		&emp.JoinDate, &last4, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	emp.BankDetails = crypto.Mask(last4)
	return emp, nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput, bank SealedBank) (Employee, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_code, department, designation, base_salary, allowances,
                           pf_applicable, professional_tax_applicable, join_date, bank_account_enc, bank_account_last4)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, input.UserID, input.EmployeeCode, input.Department, input.Designation, input.BaseSalary, input.Allowances,
		input.PFApplicable, input.ProfessionalTaxApplicable, input.JoinDate, bank.Ciphertext, bank.Last4).Scan(&id)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return s.GetEmployee(ctx, id)
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, input EmployeeInput, bank *SealedBank) (Employee, error) {
	var enc []byte
	var last4 *string
	if bank != nil {
		enc = bank.Ciphertext
		last4 = &bank.Last4
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_code = $2, department = $3, designation = $4, base_salary = $5, allowances = $6,
        pf_applicable = $7, professional_tax_applicable = $8, join_date = $9,
        bank_account_enc = COALESCE($10, bank_account_enc),
        bank_account_last4 = COALESCE($11, bank_account_last4),
        updated_at = now()
    WHERE id = $1
  `, id, input.EmployeeCode, input.Department, input.Designation, input.BaseSalary, input.Allowances,
		input.PFApplicable, input.ProfessionalTaxApplicable, input.JoinDate, enc, last4)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.GetEmployee(ctx, id)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE e.id = $1`, id))
	if db.IsNoRows(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE e.user_id = $1`, userID))
	if db.IsNoRows(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count)
	return count, err
}

func (s *Store) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON u.id = e.user_id
    ORDER BY e.created_at, e.id
    LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "employees_user_id_key"):
		return ErrUserHasEmployee
	case db.IsUniqueViolation(err, "employees_employee_code_key"):
		return ErrEmployeeCodeExists
	}
	return err
}
