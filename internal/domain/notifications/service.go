package notifications

import (
	"context"
	"fmt"
	"strings"

	"hrms/internal/platform/email"
)

type Service struct {
	store       StoreAPI
	Mailer      email.Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer email.Mailer, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, DefaultFrom: from}
}

// Message is one notification addressed to a user, optionally mirrored by email.
type Message struct {
	UserID string
	Email  string
	Type   string
	Title  string
	Body   string
}

// Send stores the in-app notification and then emails it when an address is
// known. Either step failing is returned to the caller.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.UserID) == "" {
		return fmt.Errorf("notification for %q has no user", msg.Email)
	}
	if err := s.store.CreateNotification(ctx, msg.UserID, msg.Type, msg.Title, msg.Body); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if s.Mailer == nil || strings.TrimSpace(msg.Email) == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, msg.Email, msg.Title, msg.Body); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, int, error) {
	total, err := s.store.CountNotifications(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
