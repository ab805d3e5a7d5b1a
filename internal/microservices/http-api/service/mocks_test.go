package service

import (
	"context"

	"animelog/internal/microservices/http-api/models"
	"animelog/internal/push"

	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) FindByHandle(ctx context.Context, handle string) (*models.UserProfile, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) DeleteUserData(ctx context.Context, userID string) (map[string]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockAnimeRepository struct {
	mock.Mock
}

func (m *MockAnimeRepository) ListByUser(ctx context.Context, userID string) ([]models.Anime, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Anime), args.Error(1)
}

func (m *MockAnimeRepository) GetByID(ctx context.Context, userID, id string) (*models.Anime, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anime), args.Error(1)
}

func (m *MockAnimeRepository) Save(ctx context.Context, anime *models.Anime) error {
	return m.Called(ctx, anime).Error(0)
}

func (m *MockAnimeRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) GetByID(ctx context.Context, userID, id string) (*models.WatchlistItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) FindByAniListID(ctx context.Context, userID string, anilistID int) (*models.WatchlistItem, error) {
	args := m.Called(ctx, userID, anilistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) Create(ctx context.Context, item *models.WatchlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockWatchlistRepository) Update(ctx context.Context, item *models.WatchlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockWatchlistRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockWatchlistRepository) ListScheduled(ctx context.Context) ([]models.WatchlistItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchlistItem), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) ListByAnime(ctx context.Context, animeID string) ([]models.Review, error) {
	args := m.Called(ctx, animeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, userID, animeID string) error {
	return m.Called(ctx, userID, animeID).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationSettings), args.Error(1)
}

func (m *MockNotificationRepository) SaveSettings(ctx context.Context, settings *models.NotificationSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockNotificationRepository) SaveSubscription(ctx context.Context, sub *models.PushSubscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockNotificationRepository) DeleteSubscription(ctx context.Context, userID, endpoint string) error {
	return m.Called(ctx, userID, endpoint).Error(0)
}

func (m *MockNotificationRepository) DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	return m.Called(ctx, endpoint).Error(0)
}

func (m *MockNotificationRepository) ListSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PushSubscription), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, sub push.Subscription, msg push.Message) error {
	return m.Called(ctx, sub, msg).Error(0)
}
