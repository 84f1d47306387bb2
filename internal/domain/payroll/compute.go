package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hrms/internal/platform/money"
)

var pfRate = decimal.RequireFromString(PFEmployeeRate)

// ComputeLine applies the payroll formula to one employee. workingDays is the
// org-wide denominator for the period; a late joiner's own working-day count
// is reported in ActualWorkingDays but does not change the daily rate.
func ComputeLine(emp Employee, periodStart, periodEnd time.Time, workingDays, unpaidDays int) LineDraft {
	if workingDays <= 0 {
		workingDays = FallbackWorkingDays
	}
	actual := workingDays
	if dateOnly(emp.JoinDate).After(dateOnly(periodStart)) {
		actual = WorkingDays(emp.JoinDate, periodEnd)
	}

	base := money.D(emp.BaseSalary)
	gross := money.RoundDecimal(base.Add(money.D(emp.Allowances)))
	unpaid := money.RoundDecimal(base.Div(decimal.NewFromInt(int64(workingDays))).Mul(decimal.NewFromInt(int64(unpaidDays))))

	pf := 0.0
	if emp.PFApplicable {
		pf = money.RoundDecimal(base.Mul(pfRate))
	}
	pt := 0.0
	if emp.ProfessionalTaxApplicable {
		pt = ProfessionalTaxAmount
	}
	other := 0.0

	line := LineDraft{
		EmployeeID:        emp.ID,
		Name:              emp.Name,
		EmployeeCode:      emp.EmployeeCode,
		Department:        emp.Department,
		Designation:       emp.Designation,
		Gross:             gross,
		UnpaidDeduction:   unpaid,
		PFEmployee:        pf,
		ProfessionalTax:   pt,
		OtherDeductions:   other,
		WorkingDays:       workingDays,
		ActualWorkingDays: actual,
		UnpaidDays:        unpaidDays,
	}
	line.Net = money.RoundDecimal(money.D(gross).Sub(money.D(line.TotalDeductions())))
	return line
}

// Compute builds draft lines for every employee who joined on or before
// periodEnd, in store order. It has no side effects.
func (s *Service) Compute(ctx context.Context, periodStart, periodEnd time.Time) ([]LineDraft, error) {
	periodStart, periodEnd = dateOnly(periodStart), dateOnly(periodEnd)
	if periodStart.After(periodEnd) {
		return nil, ErrInvalidPeriod
	}

	employees, err := s.store.ListEligibleEmployees(ctx, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("list eligible employees: %w", err)
	}

	workingDays := WorkingDays(periodStart, periodEnd)
	lines := make([]LineDraft, 0, len(employees))
	for _, emp := range employees {
		unpaidDays, err := s.aggregator.UnpaidDays(ctx, emp.ID, periodStart, periodEnd)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ComputeLine(emp, periodStart, periodEnd, workingDays, unpaidDays))
	}
	return lines, nil
}

// Summarize totals draft lines. Each total is an exact sum of the rounded
// line values, rounded once more.
func Summarize(lines []LineDraft) Summary {
	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, line := range lines {
		gross = gross.Add(money.D(line.Gross))
		deductions = deductions.Add(money.D(line.TotalDeductions()))
		net = net.Add(money.D(line.Net))
	}
	return Summary{
		TotalEmployees:  len(lines),
		TotalGross:      money.RoundDecimal(gross),
		TotalDeductions: money.RoundDecimal(deductions),
		TotalNet:        money.RoundDecimal(net),
	}
}

func sumMoney(values ...float64) float64 {
	return money.Sum(values...)
}
