package core

import "time"

type Employee struct {
	ID                        string    `json:"id"`
	UserID                    string    `json:"userId"`
	Name                      string    `json:"name"`
	Email                     string    `json:"email"`
	EmployeeCode              string    `json:"employeeCode"`
	Department                string    `json:"department"`
	Designation               string    `json:"designation"`
	BaseSalary                float64   `json:"baseSalary"`
	Allowances                float64   `json:"allowances"`
	PFApplicable              bool      `json:"pfApplicable"`
	ProfessionalTaxApplicable bool      `json:"professionalTaxApplicable"`
	JoinDate                  time.Time `json:"joinDate"`
	BankDetails               string    `json:"bankDetails,omitempty"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// EmployeeInput is the writable subset of Employee. BankAccount is plaintext
// and only ever leaves the service sealed.
type EmployeeInput struct {
	UserID                    string    `json:"userId" validate:"required,uuid"`
	EmployeeCode              string    `json:"employeeCode" validate:"required,max=32"`
	Department                string    `json:"department" validate:"max=100"`
	Designation               string    `json:"designation" validate:"max=100"`
	BaseSalary                float64   `json:"baseSalary" validate:"gte=0"`
	Allowances                float64   `json:"allowances" validate:"gte=0"`
	PFApplicable              bool      `json:"pfApplicable"`
	ProfessionalTaxApplicable bool      `json:"professionalTaxApplicable"`
	JoinDate                  time.Time `json:"joinDate" validate:"required"`
	BankAccount               string    `json:"bankAccount" validate:"max=64"`
}

// SealedBank is the at-rest form of an employee's bank account.
type SealedBank struct {
	Ciphertext []byte
	Last4      string
}
