package payroll

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/db"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const (
	payrunPeriodConstraint       = "payruns_period_key"
	payrunLineEmployeeConstraint = "payrun_lines_employee_fkey"
)

func (s *Store) ListEligibleEmployees(ctx context.Context, periodEnd time.Time) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.user_id, u.name, u.email, e.employee_code, e.department, e.designation,
           e.base_salary::float8, e.allowances::float8, e.pf_applicable, e.professional_tax_applicable, e.join_date
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE e.join_date <= $1
    ORDER BY e.created_at, e.id
  `, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.EmployeeCode, &e.Department, &e.Designation,
			&e.BaseSalary, &e.Allowances, &e.PFApplicable, &e.ProfessionalTaxApplicable, &e.JoinDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListApprovedUnpaidLeave(ctx context.Context, employeeID string, start, end time.Time) ([]DateRange, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT from_date, to_date
    FROM time_off
    WHERE employee_id = $1 AND leave_type = 'UNPAID' AND status = 'APPROVED'
      AND from_date <= $3 AND to_date >= $2
    ORDER BY from_date
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DateRange
	for rows.Next() {
		var r DateRange
		if err := rows.Scan(&r.From, &r.To); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListAbsentDates(ctx context.Context, employeeID string, start, end time.Time) ([]time.Time, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT work_date
    FROM attendance
    WHERE employee_id = $1 AND status = 'ABSENT' AND work_date BETWEEN $2 AND $3
    ORDER BY work_date
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreatePayrun writes the header and every line in one transaction.
func (s *Store) CreatePayrun(ctx context.Context, run Payrun, lines []PayrunLine) (Payrun, []PayrunLine, error) {
	created := run
	saved := make([]PayrunLine, len(lines))
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO payruns (period_start, period_end, status, total_gross, total_deductions, total_net, created_by)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
      RETURNING id, created_at
    `, run.PeriodStart, run.PeriodEnd, run.Status, run.TotalGross, run.TotalDeductions, run.TotalNet,
			nullIfEmpty(run.CreatedBy)).Scan(&created.ID, &created.CreatedAt); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, line := range lines {
			batch.Queue(`
        INSERT INTO payrun_lines (payrun_id, employee_id, gross, unpaid_deduction, pf_employee,
                                  professional_tax, other_deductions, net, remarks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id
      `, created.ID, line.EmployeeID, line.Gross, line.UnpaidDeduction, line.PFEmployee,
				line.ProfessionalTax, line.OtherDeductions, line.Net, line.Remarks)
		}
		results := tx.SendBatch(ctx, batch)
		for i, line := range lines {
			line.PayrunID = created.ID
			if err := results.QueryRow().Scan(&line.ID); err != nil {
				results.Close()
				return err
			}
			saved[i] = line
		}
		return results.Close()
	})
	if db.IsUniqueViolation(err, payrunPeriodConstraint) {
		return Payrun{}, nil, ErrPeriodAlreadyFinalized
	}
	if db.IsForeignKeyViolation(err, payrunLineEmployeeConstraint) || db.IsInvalidText(err) {
		return Payrun{}, nil, ErrEmployeeNotFound
	}
	if err != nil {
		return Payrun{}, nil, err
	}
	return created, saved, nil
}

const payrunColumns = `id, period_start, period_end, status, total_gross::float8, total_deductions::float8,
    total_net::float8, COALESCE(created_by::text, ''), created_at`

func scanPayrun(row pgx.Row) (Payrun, error) {
	var r Payrun
	err := row.Scan(&r.ID, &r.PeriodStart, &r.PeriodEnd, &r.Status, &r.TotalGross, &r.TotalDeductions,
		&r.TotalNet, &r.CreatedBy, &r.CreatedAt)
	return r, err
}

func (s *Store) GetPayrun(ctx context.Context, id string) (Payrun, error) {
	run, err := scanPayrun(s.DB.QueryRow(ctx, `SELECT `+payrunColumns+` FROM payruns WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return Payrun{}, ErrPayrunNotFound
	}
	if err != nil {
		return Payrun{}, err
	}
	if run.Lines, err = s.listLines(ctx, run.ID); err != nil {
		return Payrun{}, err
	}
	return run, nil
}

func (s *Store) ListPayruns(ctx context.Context, filter ListFilter) ([]Payrun, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM payruns WHERE ($1 = '' OR status = $1)`, filter.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+payrunColumns+`
    FROM payruns
    WHERE ($1 = '' OR status = $1)
    ORDER BY period_start DESC, created_at DESC
    LIMIT $2 OFFSET $3
  `, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	var runs []Payrun
	for rows.Next() {
		run, err := scanPayrun(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range runs {
		if runs[i].Lines, err = s.listLines(ctx, runs[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return runs, total, nil
}

const lineSelect = `
    SELECT l.id, l.payrun_id, l.employee_id, l.gross::float8, l.unpaid_deduction::float8, l.pf_employee::float8,
           l.professional_tax::float8, l.other_deductions::float8, l.net::float8, l.remarks,
           e.user_id, u.name, u.email, e.employee_code, e.department, e.designation,
           r.period_start, r.period_end,
           COALESCE(p.id::text, ''), COALESCE(p.file_path, ''), p.generated_at
    FROM payrun_lines l
    JOIN payruns r ON r.id = l.payrun_id
    JOIN employees e ON e.id = l.employee_id
    JOIN users u ON u.id = e.user_id
    LEFT JOIN payslips p ON p.payrun_line_id = l.id
`

func scanLine(row pgx.Row) (PayrunLine, PayslipDocument, error) {
	var line PayrunLine
	var doc PayslipDocument
	var emp EmployeeRef
	var payslip Payslip
	var generatedAt *time.Time
	err := row.Scan(&line.ID, &line.PayrunID, &line.EmployeeID, &line.Gross, &line.UnpaidDeduction, &line.PFEmployee,
		&line.ProfessionalTax, &line.OtherDeductions, &line.Net, &line.Remarks,
		&emp.UserID, &emp.Name, &emp.Email, &emp.EmployeeCode, &emp.Department, &emp.Designation,
		&doc.PeriodStart, &doc.PeriodEnd,
		&payslip.ID, &payslip.FilePath, &generatedAt)
	if err != nil {
		return PayrunLine{}, PayslipDocument{}, err
	}
	emp.ID = line.EmployeeID
	line.Employee = &emp
	if payslip.ID != "" {
		payslip.PayrunLineID = line.ID
		if generatedAt != nil {
			payslip.GeneratedAt = *generatedAt
		}
		line.Payslip = &payslip
	}
	doc.PayrunID = line.PayrunID
	doc.Line = line
	doc.Employee = emp
	return line, doc, nil
}

func (s *Store) queryLines(ctx context.Context, where string, arg any) ([]PayrunLine, []PayslipDocument, error) {
	rows, err := s.DB.Query(ctx, lineSelect+where+" ORDER BY e.employee_code, l.id", arg)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var lines []PayrunLine
	var docs []PayslipDocument
	for rows.Next() {
		line, doc, err := scanLine(rows)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, line)
		docs = append(docs, doc)
	}
	return lines, docs, rows.Err()
}

func (s *Store) listLines(ctx context.Context, payrunID string) ([]PayrunLine, error) {
	lines, _, err := s.queryLines(ctx, "WHERE l.payrun_id = $1", payrunID)
	return lines, err
}

func (s *Store) ListPayslipDocuments(ctx context.Context, payrunID string) ([]PayslipDocument, error) {
	_, docs, err := s.queryLines(ctx, "WHERE l.payrun_id = $1", payrunID)
	return docs, err
}

// DeletePayrun only removes non-finalized payruns; lines and payslips cascade.
func (s *Store) DeletePayrun(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM payruns WHERE id = $1 AND status <> 'FINALIZED'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var status string
	err = s.DB.QueryRow(ctx, `SELECT status FROM payruns WHERE id = $1`, id).Scan(&status)
	if db.IsNoRows(err) {
		return ErrPayrunNotFound
	}
	if err != nil {
		return err
	}
	return ErrPayrunFinalized
}

func (s *Store) UpsertPayslip(ctx context.Context, lineID, filePath string, generatedAt time.Time) (Payslip, error) {
	p := Payslip{PayrunLineID: lineID}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (payrun_line_id, file_path, generated_at)
    VALUES ($1,$2,$3)
    ON CONFLICT (payrun_line_id) DO UPDATE SET file_path = EXCLUDED.file_path, generated_at = EXCLUDED.generated_at
    RETURNING id, file_path, generated_at
  `, lineID, filePath, generatedAt).Scan(&p.ID, &p.FilePath, &p.GeneratedAt)
	return p, err
}

func (s *Store) GetPayslip(ctx context.Context, id string) (Payslip, PayslipDocument, error) {
	_, docs, err := s.queryLines(ctx, "WHERE p.id = $1", id)
	if err != nil {
		return Payslip{}, PayslipDocument{}, err
	}
	if len(docs) == 0 || docs[0].Line.Payslip == nil {
		return Payslip{}, PayslipDocument{}, ErrPayslipNotFound
	}
	return *docs[0].Line.Payslip, docs[0], nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
