// Package pdf renders payslips as PDF files on local disk.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrms/internal/domain/payroll"
)

const dateLayout = "2006-01-02"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type Renderer struct {
	dir string
	now func() time.Time
}

func New(dir string) *Renderer {
	return &Renderer{dir: dir, now: time.Now}
}

// Render writes payslip_<code>_<unixMillis>.pdf and returns its path.
func (r *Renderer) Render(ctx context.Context, doc payroll.PayslipDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(r.dir, Filename(doc.Employee.EmployeeCode, r.now()))

	line := doc.Line
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", doc.Employee.Name, doc.Employee.EmployeeCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", doc.Employee.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", doc.Employee.Designation))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", doc.PeriodStart.Format(dateLayout), doc.PeriodEnd.Format(dateLayout)))
	pdf.Ln(10)

	rows := []struct {
		label  string
		amount float64
	}{
		{"Gross", line.Gross},
		{"Unpaid leave deduction", line.UnpaidDeduction},
		{"Provident fund (employee)", line.PFEmployee},
		{"Professional tax", line.ProfessionalTax},
		{"Other deductions", line.OtherDeductions},
	}
	for _, row := range rows {
		pdf.CellFormat(90, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", row.amount), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(90, 8, "Net pay", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", line.Net), "1", 1, "R", false, 0, "")
	if line.Remarks != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, line.Remarks)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func Filename(employeeCode string, at time.Time) string {
	code := unsafeChars.ReplaceAllString(employeeCode, "_")
	if code == "" {
		code = "unknown"
	}
	return fmt.Sprintf("payslip_%s_%d.pdf", code, at.UnixMilli())
}
