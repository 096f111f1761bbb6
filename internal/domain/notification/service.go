package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/logger"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/pagination"
	"climatejobs/internal/pkg/validator"
)

type userReader interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
}

type Service struct {
	repo  Repository
	users userReader
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, users userReader, log *zap.Logger) *Service {
	return &Service{repo: repo, users: users, log: logger.OrNop(log), now: time.Now}
}

// Send writes a notification for another user.
func (s *Service) Send(ctx context.Context, actor auth.Identity, req SendRequest) (*Notification, error) {
	if !actor.Can(auth.PermSendNotifications) {
		return nil, apperr.New(apperr.Forbidden, "Access denied: insufficient permissions")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	req.Type = strings.TrimSpace(req.Type)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	n := &Notification{UserID: req.UserID, Title: req.Title, Message: req.Message, Type: req.Type}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.log.Debug("notification sent",
		zap.String("notification_id", n.ID),
		zap.String("sender_id", actor.UserID),
		zap.String("recipient_id", n.UserID),
	)
	return n, nil
}

func (s *Service) ListMine(ctx context.Context, userID string, unreadOnly bool, p pagination.Params) ([]Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, p)
}

// MarkRead marks one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, actor auth.Identity, id string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, ErrNotRecipient
	}
	if n.Read {
		return n, nil
	}

	at := s.now().UTC()
	if err := s.repo.MarkRead(ctx, n.ID, actor.UserID, at); err != nil {
		return nil, err
	}
	n.Read = true
	n.ReadAt = &at
	return n, nil
}
