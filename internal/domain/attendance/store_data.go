package attendance

import (
	"context"
	"time"

	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = "id, employee_id, work_date, check_in, check_out, total_hours::float8, status"

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	var status string
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.TotalHours, &status)
	rec.Status = Status(status)
	return rec, err
}

func (s *Store) FindByDate(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `SELECT `+recordColumns+`
    FROM attendance WHERE employee_id = $1 AND work_date = $2`, employeeID, date))
	if db.IsNoRows(err) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) Insert(ctx context.Context, rec Record) (Record, error) {
	out, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, work_date, check_in, check_out, total_hours, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+recordColumns,
		rec.EmployeeID, rec.Date, rec.CheckIn, rec.CheckOut, rec.TotalHours, string(rec.Status)))
	if db.IsUniqueViolation(err, "attendance_employee_date_key") {
		return Record{}, ErrAlreadyCheckedIn
	}
	return out, err
}

func (s *Store) Update(ctx context.Context, rec Record) (Record, error) {
	out, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET check_in = $2, check_out = $3, total_hours = $4, status = $5
    WHERE id = $1
    RETURNING `+recordColumns,
		rec.ID, rec.CheckIn, rec.CheckOut, rec.TotalHours, string(rec.Status)))
	if db.IsNoRows(err) {
		return Record{}, ErrNotFound
	}
	return out, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+recordColumns+`
    FROM attendance
    WHERE ($1 = '' OR employee_id::text = $1)
      AND work_date BETWEEN $2 AND $3
    ORDER BY work_date DESC, employee_id
    LIMIT $4 OFFSET $5`, filter.EmployeeID, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
