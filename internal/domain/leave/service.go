package leave

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Submit(ctx context.Context, req Request) (TimeOff, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	req.Type = Type(strings.ToUpper(string(req.Type)))
	if err := Validate(req, s.now()); err != nil {
		return TimeOff{}, err
	}
	req.From, req.To = dateOnly(req.From), dateOnly(req.To)
	return s.store.Create(ctx, req)
}

func (s *Service) Approve(ctx context.Context, id, approverID string) (TimeOff, error) {
	return s.decide(ctx, id, StatusApproved, approverID)
}

func (s *Service) Reject(ctx context.Context, id, approverID string) (TimeOff, error) {
	return s.decide(ctx, id, StatusRejected, approverID)
}

func (s *Service) decide(ctx context.Context, id string, next Status, approverID string) (TimeOff, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return TimeOff{}, err
	}
	if !CanDecide(current.Status, next) {
		return TimeOff{}, ErrNotPending
	}
	moved, err := s.store.Decide(ctx, id, next, approverID)
	if err != nil {
		return TimeOff{}, err
	}
	if !moved {
		return TimeOff{}, ErrNotPending
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (TimeOff, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]TimeOff, int, error) {
	return s.store.List(ctx, filter)
}
