package leave

import (
	"context"
	"fmt"

	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const timeOffColumns = `id, employee_id, from_date, to_date, leave_type, reason, status,
    COALESCE(approver_id::text, ''), decided_at, created_at`

func scanTimeOff(row interface{ Scan(...any) error }) (TimeOff, error) {
	var t TimeOff
	var leaveType, status string
	err := row.Scan(&t.ID, &t.EmployeeID, &t.From, &t.To, &leaveType, &t.Reason, &status, &t.ApproverID, &t.DecidedAt, &t.CreatedAt)
	t.Type = Type(leaveType)
	t.Status = Status(status)
	return t, err
}

func (s *Store) Create(ctx context.Context, req Request) (TimeOff, error) {
	return scanTimeOff(s.DB.QueryRow(ctx, `
    INSERT INTO time_off (employee_id, from_date, to_date, leave_type, reason)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+timeOffColumns,
		req.EmployeeID, req.From, req.To, string(req.Type), req.Reason))
}

func (s *Store) Get(ctx context.Context, id string) (TimeOff, error) {
	t, err := scanTimeOff(s.DB.QueryRow(ctx, `SELECT `+timeOffColumns+` FROM time_off WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return TimeOff{}, ErrNotFound
	}
	return t, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]TimeOff, int, error) {
	where := "WHERE ($1 = '' OR employee_id::text = $1) AND ($2 = '' OR status = $2)"
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM time_off "+where, filter.EmployeeID, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, fmt.Sprintf(`SELECT %s FROM time_off %s ORDER BY created_at DESC LIMIT $3 OFFSET $4`, timeOffColumns, where),
		filter.EmployeeID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []TimeOff
	for rows.Next() {
		t, err := scanTimeOff(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) Decide(ctx context.Context, id string, status Status, approverID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_off
    SET status = $2, approver_id = $3, decided_at = now()
    WHERE id = $1 AND status = 'PENDING'
  `, id, string(status), approverID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
