package attendance

import (
	"context"
	"errors"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CheckIn opens today's record. A record already marked absent without a
// check-in is converted to PRESENT.
func (s *Service) CheckIn(ctx context.Context, employeeID string) (Record, error) {
	now := s.now()
	existing, err := s.store.FindByDate(ctx, employeeID, WorkDate(now))
	switch {
	case errors.Is(err, ErrNotFound):
		return s.store.Insert(ctx, Record{EmployeeID: employeeID, Date: WorkDate(now), CheckIn: &now, Status: StatusPresent})
	case err != nil:
		return Record{}, err
	case existing.CheckIn != nil:
		return Record{}, ErrAlreadyCheckedIn
	}
	existing.CheckIn = &now
	existing.Status = StatusPresent
	return s.store.Update(ctx, existing)
}

func (s *Service) CheckOut(ctx context.Context, employeeID string) (Record, error) {
	now := s.now()
	existing, err := s.store.FindByDate(ctx, employeeID, WorkDate(now))
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if existing.CheckIn == nil {
		return Record{}, ErrNotCheckedIn
	}
	if existing.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}
	hours, err := TotalHours(*existing.CheckIn, now)
	if err != nil {
		return Record{}, err
	}
	existing.CheckOut = &now
	existing.TotalHours = &hours
	return s.store.Update(ctx, existing)
}

// MarkAbsent records an ABSENT day. Days with a check-in cannot be marked.
func (s *Service) MarkAbsent(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	date = WorkDate(date)
	existing, err := s.store.FindByDate(ctx, employeeID, date)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.store.Insert(ctx, Record{EmployeeID: employeeID, Date: date, Status: StatusAbsent})
	case err != nil:
		return Record{}, err
	case existing.CheckIn != nil:
		return Record{}, ErrAlreadyCheckedIn
	}
	existing.Status = StatusAbsent
	return s.store.Update(ctx, existing)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	return s.store.List(ctx, filter)
}
