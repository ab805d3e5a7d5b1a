package service

import (
	"context"
	"errors"
	"testing"

	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type profileFixture struct {
	svc       ProfileService
	profiles  *MockProfileRepository
	accounts  *MockAccountRepository
	animes    *MockAnimeRepository
	resolver  *storage.Resolver
	watchlist *MockWatchlistRepository
}

func newProfileFixture(t *testing.T) profileFixture {
	f := profileFixture{
		profiles:  new(MockProfileRepository),
		accounts:  new(MockAccountRepository),
		animes:    new(MockAnimeRepository),
		watchlist: new(MockWatchlistRepository),
	}
	f.resolver = storage.NewResolver(newTestKV(t), f.animes, f.watchlist)
	f.svc = NewProfileService(f.profiles, f.accounts, f.resolver, newTestAnimeService(), zap.NewNop())
	return f
}

func TestProfileService_UpsertCreates(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	f.profiles.On("FindByHandle", ctx, "frieren_fan").Return(nil, gorm.ErrRecordNotFound)
	f.profiles.On("FindByID", ctx, "u1").Return(nil, gorm.ErrRecordNotFound)
	f.animes.On("ListByUser", ctx, "u1").Return([]models.Anime{}, nil)
	f.profiles.On("Save", ctx, mock.AnythingOfType("*models.UserProfile")).Return(nil)

	p, err := f.svc.Upsert(ctx, "u1", ProfileInput{Username: "Fan", Handle: " Frieren_Fan ", IsPublic: true})

	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "frieren_fan", p.Handle)
	assert.Equal(t, "ライト視聴型", p.OtakuType)
	f.profiles.AssertExpectations(t)
}

func TestProfileService_UpsertHandleTaken(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	f.profiles.On("FindByHandle", ctx, "taken").Return(&models.UserProfile{ID: "someone-else"}, nil)

	_, err := f.svc.Upsert(ctx, "u1", ProfileInput{Username: "x", Handle: "taken"})

	assert.ErrorIs(t, err, ErrHandleTaken)
	f.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProfileService_UpsertDuplicateOnSave(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	f.profiles.On("FindByHandle", ctx, "racy").Return(nil, gorm.ErrRecordNotFound)
	f.profiles.On("FindByID", ctx, "u1").Return(&models.UserProfile{ID: "u1"}, nil)
	f.animes.On("ListByUser", ctx, "u1").Return([]models.Anime{}, nil)
	f.profiles.On("Save", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := f.svc.Upsert(ctx, "u1", ProfileInput{Username: "x", Handle: "racy"})

	assert.ErrorIs(t, err, ErrHandleTaken)
}

func TestProfileService_UpsertValidation(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	_, err := f.svc.Upsert(ctx, "u1", ProfileInput{Handle: "abc"})
	assert.ErrorIs(t, err, ErrUsername)

	_, err = f.svc.Upsert(ctx, "u1", ProfileInput{Username: "x", Handle: "a!"})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestProfileService_PublicProfile(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	f.profiles.On("FindByHandle", ctx, "public").Return(&models.UserProfile{ID: "u1", Handle: "public", Username: "P", IsPublic: true}, nil)
	f.profiles.On("FindByHandle", ctx, "private").Return(&models.UserProfile{ID: "u2", Handle: "private"}, nil)
	f.animes.On("ListByUser", ctx, "u1").Return([]models.Anime{{Title: "A", Rating: 5}}, nil)

	pub, err := f.svc.PublicProfile(ctx, "public")
	require.NoError(t, err)
	assert.Equal(t, "P", pub.Username)
	require.NotNil(t, pub.Card)
	require.Len(t, pub.Card.TopAnime, 1)

	_, err = f.svc.PublicProfile(ctx, "private")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_DeleteAccountClearsBlobs(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)
	hosted, err := f.resolver.Hosted("u1")
	require.NoError(t, err)
	require.NoError(t, hosted.SetSeasonMarker(ctx, "2025年春"))
	other, err := f.resolver.Hosted("u2")
	require.NoError(t, err)
	require.NoError(t, other.SetSeasonMarker(ctx, "2025年春"))

	f.accounts.On("DeleteUserData", ctx, "u1").Return(map[string]int64{"animes": 3}, nil)

	deleted, err := f.svc.DeleteAccount(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted["animes"])
	keys, err := f.resolver.KV().Keys(ctx, storage.UserKeyPrefix("u1"))
	require.NoError(t, err)
	assert.Empty(t, keys)
	marker, err := other.SeasonMarker(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025年春", marker)
}

func TestProfileService_DeleteAccountFailureKeepsBlobs(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)
	hosted, _ := f.resolver.Hosted("u1")
	require.NoError(t, hosted.SetSeasonMarker(ctx, "2025年春"))

	f.accounts.On("DeleteUserData", ctx, "u1").Return(nil, errors.New("tx aborted"))

	_, err := f.svc.DeleteAccount(ctx, "u1")

	require.Error(t, err)
	marker, _ := hosted.SeasonMarker(ctx)
	assert.Equal(t, "2025年春", marker)
}
