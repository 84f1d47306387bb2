package payroll

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Sheet1"

var registerHeader = []any{
	"Employee Code", "Name", "Department", "Designation", "Gross", "Unpaid Deduction",
	"PF (Employee)", "Professional Tax", "Other Deductions", "Net", "Remarks",
}

// WriteRegister writes the payrun's lines as an XLSX register with a totals row.
func WriteRegister(w io.Writer, run Payrun) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(registerSheet, "A1", &registerHeader); err != nil {
		return err
	}
	row := 2
	for _, line := range run.Lines {
		var code, name, dept, desig string
		if line.Employee != nil {
			code, name, dept, desig = line.Employee.EmployeeCode, line.Employee.Name, line.Employee.Department, line.Employee.Designation
		}
		values := []any{code, name, dept, desig, line.Gross, line.UnpaidDeduction, line.PFEmployee,
			line.ProfessionalTax, line.OtherDeductions, line.Net, line.Remarks}
		if err := f.SetSheetRow(registerSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}
	totals := []any{"TOTAL", "", "", "", run.TotalGross, "", "", "", run.TotalDeductions, run.TotalNet, ""}
	if err := f.SetSheetRow(registerSheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}
	return f.Write(w)
}

// RegisterFilename names the export after the payrun period.
func RegisterFilename(run Payrun) string {
	return fmt.Sprintf("payroll_register_%s_%s.xlsx", run.PeriodStart.Format(dateLayout), run.PeriodEnd.Format(dateLayout))
}
