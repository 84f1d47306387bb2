// Package audit keeps an append-only trail of payroll mutations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hrms/internal/platform/db"
)

const (
	ActionPayrunFinalized    = "payroll.finalized"
	ActionPayrunDeleted      = "payroll.deleted"
	ActionPayslipRegenerated = "payroll.payslip_regenerated"
	ActionPayslipsGenerated  = "payroll.payslips_generated"

	EntityPayrun  = "payrun"
	EntityPayslip = "payslip"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
}

type Service struct {
	DB db.Querier
}

func New(q db.Querier) *Service {
	return &Service{DB: q}
}

// Record appends one event. details may be nil.
func (s *Service) Record(ctx context.Context, evt Event, details any) error {
	payload := []byte("{}")
	if details != nil {
		var err error
		if payload, err = json.Marshal(details); err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity_type, entity_id, details, request_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, nullIfEmpty(evt.ActorID), evt.Action, evt.EntityType, evt.EntityID, payload, evt.RequestID)
	return err
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM audit_events"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, COALESCE(actor_id::text, ''), action, entity_type, entity_id, request_id, details, created_at
    FROM audit_events%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.Details, &evt.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, evt)
	}
	return out, total, rows.Err()
}

func buildWhere(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("action", filter.Action)
	add("entity_type", filter.EntityType)
	add("entity_id", filter.EntityID)
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
