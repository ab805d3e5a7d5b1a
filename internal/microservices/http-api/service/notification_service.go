package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/repository"
	"animelog/internal/push"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrLeadTime             = apperr.Invalid("minutes_before must be between 0 and 1440")
	ErrInvalidSubscription  = apperr.Invalid("subscription needs an https endpoint, p256dh and auth")
	ErrSubscriptionNotFound = apperr.NotFound("push subscription not found")
	ErrPushDisabled         = apperr.New(apperr.KindUnauthorized, "push notifications are not configured")
)

type SubscriptionInput struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type NotificationService interface {
	Settings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID string, enabled bool, minutesBefore int) (*models.NotificationSettings, error)
	Subscribe(ctx context.Context, userID string, in SubscriptionInput) (*models.PushSubscription, error)
	Unsubscribe(ctx context.Context, userID, endpoint string) error
	// SendTest pushes a test message to every subscription of the user and
	// returns how many were delivered.
	SendTest(ctx context.Context, userID string) (int, error)
	PublicKey() string
}

type notificationService struct {
	repo   repository.NotificationRepository
	sender push.Sender
	vapid  *push.VAPID
	logger *zap.Logger
}

// NewNotificationService accepts a nil sender and vapid when push is not
// configured; settings and subscriptions still work.
func NewNotificationService(repo repository.NotificationRepository, sender push.Sender, vapid *push.VAPID, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, sender: sender, vapid: vapid, logger: logger}
}

func (s *notificationService) Settings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.NotificationSettings{UserID: userID, MinutesBefore: models.DefaultMinutesBefore}, nil
	}
	return settings, err
}

func (s *notificationService) UpdateSettings(ctx context.Context, userID string, enabled bool, minutesBefore int) (*models.NotificationSettings, error) {
	if minutesBefore < 0 || minutesBefore > 24*60 {
		return nil, ErrLeadTime
	}
	settings := &models.NotificationSettings{UserID: userID, Enabled: enabled, MinutesBefore: minutesBefore}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *notificationService) Subscribe(ctx context.Context, userID string, in SubscriptionInput) (*models.PushSubscription, error) {
	u, err := url.Parse(strings.TrimSpace(in.Endpoint))
	if err != nil || u.Scheme != "https" || u.Host == "" || in.P256dh == "" || in.Auth == "" {
		return nil, ErrInvalidSubscription
	}
	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: u.String(),
		P256dh:   in.P256dh,
		Auth:     in.Auth,
	}
	if err := s.repo.SaveSubscription(ctx, sub); err != nil {
		s.logger.Error("failed to save push subscription", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *notificationService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	err := s.repo.DeleteSubscription(ctx, userID, endpoint)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSubscriptionNotFound
	}
	return err
}

func (s *notificationService) SendTest(ctx context.Context, userID string) (int, error) {
	if s.sender == nil {
		return 0, ErrPushDisabled
	}
	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return 0, err
	}

	msg := push.Message{Title: "AnimeLog", Body: "通知のテストです", Tag: "test"}
	delivered := 0
	for _, sub := range subs {
		err := s.sender.Send(ctx, push.Subscription{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}, msg)
		switch {
		case errors.Is(err, push.ErrSubscriptionGone):
			if delErr := s.repo.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint); delErr != nil {
				s.logger.Warn("failed to delete expired subscription", zap.Error(delErr))
			}
		case err != nil:
			s.logger.Warn("test push failed", zap.String("user_id", userID), zap.Error(err))
		default:
			delivered++
		}
	}
	return delivered, nil
}

func (s *notificationService) PublicKey() string {
	if s.vapid == nil {
		return ""
	}
	return s.vapid.PublicKey()
}
