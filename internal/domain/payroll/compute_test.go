package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmployee(id, code string, joined string) Employee {
	return Employee{
		ID:                        id,
		UserID:                    "user-" + id,
		Name:                      "Employee " + code,
		Email:                     code + "@example.com",
		EmployeeCode:              code,
		Department:                "Engineering",
		Designation:               "Engineer",
		BaseSalary:                30000,
		Allowances:                5000,
		PFApplicable:              true,
		ProfessionalTaxApplicable: true,
		JoinDate:                  day(joined),
	}
}

func TestComputeLineFormula(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2023-06-01")

	line := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, 2)

	assert.Equal(t, 35000.0, line.Gross)
	assert.Equal(t, 2608.70, line.UnpaidDeduction)
	assert.Equal(t, 3600.0, line.PFEmployee)
	assert.Equal(t, 200.0, line.ProfessionalTax)
	assert.Zero(t, line.OtherDeductions)
	assert.Equal(t, 28591.30, line.Net)
	assert.Equal(t, 23, line.ActualWorkingDays)
	assert.Equal(t, 2, line.UnpaidDays)
}

func TestComputeLineWithoutStatutoryDeductions(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2023-06-01")
	emp.PFApplicable = false
	emp.ProfessionalTaxApplicable = false

	line := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, 0)

	assert.Zero(t, line.PFEmployee)
	assert.Zero(t, line.ProfessionalTax)
	assert.Equal(t, line.Gross, line.Net)
}

func TestComputeLineNetIsGrossMinusRoundedDeductions(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2023-06-01")
	emp.BaseSalary = 33333.33
	emp.Allowances = 1234.56

	line := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, 3)

	want := line.Gross - (line.UnpaidDeduction + line.PFEmployee + line.ProfessionalTax + line.OtherDeductions)
	assert.InDelta(t, want, line.Net, 0.005)
}

func TestComputeLateJoinerKeepsOrgWideRate(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2024-01-15")

	line := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, 1)

	assert.Equal(t, 13, line.ActualWorkingDays)
	// 30000 / 23 for one day, not 30000 / 13.
	assert.Equal(t, 1304.35, line.UnpaidDeduction)
}

func TestComputeSelectsEligibleEmployeesInOrder(t *testing.T) {
	store := newMemStore(
		sampleEmployee("e1", "EMP001", "2023-06-01"),
		sampleEmployee("e2", "EMP002", "2024-02-01"),
		sampleEmployee("e3", "EMP003", "2024-01-31"),
	)
	store.absences["e1"] = []time.Time{day("2024-01-10")}
	svc := NewService(store, Options{})

	lines, err := svc.Compute(context.Background(), day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "e1", lines[0].EmployeeID)
	assert.Equal(t, 1, lines[0].UnpaidDays)
	assert.Equal(t, "e3", lines[1].EmployeeID)
	assert.Equal(t, 1, lines[1].ActualWorkingDays)
}

func TestComputeIsIdempotent(t *testing.T) {
	store := newMemStore(sampleEmployee("e1", "EMP001", "2023-06-01"))
	store.leave["e1"] = []DateRange{{From: day("2024-01-08"), To: day("2024-01-09")}}
	svc := NewService(store, Options{})
	ctx := context.Background()

	first, err := svc.Compute(ctx, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	second, err := svc.Compute(ctx, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Empty(t, store.runs)
}

func TestComputeRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(newMemStore(), Options{})
	_, err := svc.Compute(context.Background(), day("2024-01-31"), day("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestSummarize(t *testing.T) {
	lines := []LineDraft{
		{Gross: 100.10, UnpaidDeduction: 10.01, PFEmployee: 5, Net: 85.09},
		{Gross: 200.20, ProfessionalTax: 200, Net: 0.20},
	}

	got := Summarize(lines)

	assert.Equal(t, Summary{TotalEmployees: 2, TotalGross: 300.30, TotalDeductions: 215.01, TotalNet: 85.29}, got)
}

func TestComputeLineReferenceSalary(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2023-06-01")
	emp.BaseSalary = 50000
	emp.Allowances = 5000

	// March 2024 has 21 weekdays; the rate is taken from the supplied count.
	line := ComputeLine(emp, day("2024-03-01"), day("2024-03-31"), 22, 0)

	assert.Equal(t, 55000.0, line.Gross)
	assert.Equal(t, 6000.0, line.PFEmployee)
	assert.Equal(t, 200.0, line.ProfessionalTax)
	assert.Equal(t, 48800.0, line.Net)
}

func TestComputeLineNetNeverRisesWithUnpaidDays(t *testing.T) {
	emp := sampleEmployee("e1", "EMP001", "2023-06-01")

	prev := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, 0).Net
	for unpaid := 1; unpaid <= 23; unpaid++ {
		net := ComputeLine(emp, day("2024-01-01"), day("2024-01-31"), 23, unpaid).Net
		assert.LessOrEqual(t, net, prev, "unpaid=%d", unpaid)
		prev = net
	}
}
