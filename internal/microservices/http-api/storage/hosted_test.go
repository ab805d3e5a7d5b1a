package storage

import (
	"context"
	"fmt"
	"testing"

	"animelog/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

func TestHostedStore_AddWatchlistItem_New(t *testing.T) {
	ctx := context.Background()
	animes := new(MockAnimeRepository)
	watchlist := new(MockWatchlistRepository)
	s := NewHostedStore(animes, watchlist, newTestKV(t), "user-1")

	watchlist.On("FindByAniListID", ctx, "user-1", 42).Return(nil, gorm.ErrRecordNotFound)
	watchlist.On("Create", ctx, mock.AnythingOfType("*models.WatchlistItem")).Return(nil)

	item, created, err := s.AddWatchlistItem(ctx, &models.WatchlistItem{AniListID: 42, Title: "x"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "user-1", item.UserID)
	watchlist.AssertExpectations(t)
}

func TestHostedStore_AddWatchlistItem_Existing(t *testing.T) {
	ctx := context.Background()
	watchlist := new(MockWatchlistRepository)
	s := NewHostedStore(new(MockAnimeRepository), watchlist, newTestKV(t), "user-1")

	existing := &models.WatchlistItem{ID: "w1", AniListID: 42, UserID: "user-1"}
	watchlist.On("FindByAniListID", ctx, "user-1", 42).Return(existing, nil)

	item, created, err := s.AddWatchlistItem(ctx, &models.WatchlistItem{AniListID: 42})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "w1", item.ID)
	watchlist.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHostedStore_AddWatchlistItem_DuplicateRace(t *testing.T) {
	ctx := context.Background()
	watchlist := new(MockWatchlistRepository)
	s := NewHostedStore(new(MockAnimeRepository), watchlist, newTestKV(t), "user-1")

	existing := &models.WatchlistItem{ID: "w1", AniListID: 42}
	watchlist.On("FindByAniListID", ctx, "user-1", 42).Return(nil, gorm.ErrRecordNotFound).Once()
	watchlist.On("Create", ctx, mock.Anything).Return(fmt.Errorf("add to watchlist: %w", gorm.ErrDuplicatedKey))
	watchlist.On("FindByAniListID", ctx, "user-1", 42).Return(existing, nil).Once()

	item, created, err := s.AddWatchlistItem(ctx, &models.WatchlistItem{AniListID: 42})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "w1", item.ID)
}

func TestHostedStore_NotFoundMapping(t *testing.T) {
	ctx := context.Background()
	animes := new(MockAnimeRepository)
	watchlist := new(MockWatchlistRepository)
	s := NewHostedStore(animes, watchlist, newTestKV(t), "user-1")

	animes.On("Delete", ctx, "user-1", "a1").Return(gorm.ErrRecordNotFound)
	animes.On("GetByID", ctx, "user-1", "a1").Return(nil, gorm.ErrRecordNotFound)
	watchlist.On("Delete", ctx, "user-1", "w1").Return(gorm.ErrRecordNotFound)
	watchlist.On("GetByID", ctx, "user-1", "w1").Return(nil, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, s.DeleteAnime(ctx, "a1"), ErrAnimeNotFound)
	_, err := s.GetAnime(ctx, "a1")
	assert.ErrorIs(t, err, ErrAnimeNotFound)
	assert.ErrorIs(t, s.RemoveWatchlistItem(ctx, "w1"), ErrWatchlistItemNotFound)
	assert.ErrorIs(t, s.UpdateWatchlistItem(ctx, &models.WatchlistItem{ID: "w1"}), ErrWatchlistItemNotFound)
	watchlist.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHostedStore_SaveAnimeSetsOwner(t *testing.T) {
	ctx := context.Background()
	animes := new(MockAnimeRepository)
	s := NewHostedStore(animes, new(MockWatchlistRepository), newTestKV(t), "user-1")

	animes.On("Save", ctx, mock.MatchedBy(func(a *models.Anime) bool { return a.UserID == "user-1" })).Return(nil)

	require.NoError(t, s.SaveAnime(ctx, &models.Anime{Title: "x", UserID: "someone-else"}))
	animes.AssertExpectations(t)
}

func TestHostedStore_BlobsUseUserPrefix(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := NewHostedStore(new(MockAnimeRepository), new(MockWatchlistRepository), kv, "user-1")

	require.NoError(t, s.SetSeasonMarker(ctx, "2025年夏"))

	keys, err := kv.Keys(ctx, UserKeyPrefix("user-1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"animelog:user:user-1:season_check"}, keys)
}
