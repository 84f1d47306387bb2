package payroll

import "time"

// Employee is the compensation view of an employee the computer works from.
type Employee struct {
	ID                        string
	UserID                    string
	Name                      string
	Email                     string
	EmployeeCode              string
	Department                string
	Designation               string
	BaseSalary                float64
	Allowances                float64
	PFApplicable              bool
	ProfessionalTaxApplicable bool
	JoinDate                  time.Time
}

type DateRange struct {
	From time.Time
	To   time.Time
}

// LineDraft is one employee's computed, unpersisted payroll result.
type LineDraft struct {
	EmployeeID        string  `json:"employeeId" validate:"required,uuid"`
	Name              string  `json:"name"`
	EmployeeCode      string  `json:"employeeCode"`
	Department        string  `json:"department"`
	Designation       string  `json:"designation"`
	Gross             float64 `json:"gross" validate:"gte=0"`
	UnpaidDeduction   float64 `json:"unpaidDeduction" validate:"gte=0"`
	PFEmployee        float64 `json:"pfEmployee" validate:"gte=0"`
	ProfessionalTax   float64 `json:"professionalTax" validate:"gte=0"`
	OtherDeductions   float64 `json:"otherDeductions" validate:"gte=0"`
	Net               float64 `json:"net"`
	WorkingDays       int     `json:"workingDays"`
	ActualWorkingDays int     `json:"actualWorkingDays" validate:"gte=0"`
	UnpaidDays        int     `json:"unpaidDays" validate:"gte=0"`
}

func (l LineDraft) TotalDeductions() float64 {
	return sumMoney(l.UnpaidDeduction, l.PFEmployee, l.ProfessionalTax, l.OtherDeductions)
}

type Summary struct {
	TotalEmployees  int     `json:"totalEmployees"`
	TotalGross      float64 `json:"totalGross"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNet        float64 `json:"totalNet"`
}

type Payrun struct {
	ID              string       `json:"id"`
	PeriodStart     time.Time    `json:"periodStart"`
	PeriodEnd       time.Time    `json:"periodEnd"`
	Status          string       `json:"status"`
	TotalGross      float64      `json:"totalGross"`
	TotalDeductions float64      `json:"totalDeductions"`
	TotalNet        float64      `json:"totalNet"`
	CreatedBy       string       `json:"createdBy,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	Lines           []PayrunLine `json:"lines,omitempty"`
}

type PayrunLine struct {
	ID              string       `json:"id"`
	PayrunID        string       `json:"payrunId"`
	EmployeeID      string       `json:"employeeId"`
	Gross           float64      `json:"gross"`
	UnpaidDeduction float64      `json:"unpaidDeduction"`
	PFEmployee      float64      `json:"pfEmployee"`
	ProfessionalTax float64      `json:"professionalTax"`
	OtherDeductions float64      `json:"otherDeductions"`
	Net             float64      `json:"net"`
	Remarks         string       `json:"remarks"`
	Employee        *EmployeeRef `json:"employee,omitempty"`
	Payslip         *Payslip     `json:"payslip,omitempty"`
}

type EmployeeRef struct {
	ID           string `json:"id"`
	UserID       string `json:"userId,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	EmployeeCode string `json:"employeeCode"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
}

type Payslip struct {
	ID           string    `json:"id"`
	PayrunLineID string    `json:"payrunLineId"`
	FilePath     string    `json:"filePath"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// PayslipDocument is everything a renderer needs for one payslip.
type PayslipDocument struct {
	PayrunID    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Line        PayrunLine
	Employee    EmployeeRef
}

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}
