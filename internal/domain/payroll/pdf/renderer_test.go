package pdf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hrms/internal/domain/payroll"
)

func TestRenderWritesPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "payslips")
	r := New(dir)
	r.now = func() time.Time { return time.UnixMilli(1706745600000) }

	path, err := r.Render(context.Background(), payroll.PayslipDocument{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Line:        payroll.PayrunLine{Gross: 35000, PFEmployee: 3600, ProfessionalTax: 200, Net: 31200, Remarks: "Working days: 23, Unpaid days: 0"},
		Employee:    payroll.EmployeeRef{Name: "Asha Rao", EmployeeCode: "EMP001"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if want := filepath.Join(dir, "payslip_EMP001_1706745600000.pdf"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read payslip: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("payslip does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(t.TempDir()).Render(ctx, payroll.PayslipDocument{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render error = %v, want context.Canceled", err)
	}
}

func TestFilenameSanitizesCode(t *testing.T) {
	at := time.UnixMilli(42)
	if got := Filename("EMP/01", at); got != "payslip_EMP_01_42.pdf" {
		t.Fatalf("Filename(EMP/01) = %q", got)
	}
	if got := Filename("", at); got != "payslip_unknown_42.pdf" {
		t.Fatalf("Filename(\"\") = %q", got)
	}
}
