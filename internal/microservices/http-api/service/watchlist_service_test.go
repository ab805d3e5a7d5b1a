package service

import (
	"context"
	"errors"
	"testing"

	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRemoveStore loses every watchlist removal.
type failingRemoveStore struct {
	*storage.LocalStore
}

func (s failingRemoveStore) RemoveWatchlistItem(ctx context.Context, id string) error {
	return errors.New("backend unavailable")
}

func TestWatchlistService_AddIsUniqueByAniListID(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()

	first, created, err := svc.Add(ctx, st, WatchlistInput{AniListID: 21, Title: "ONE PIECE"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Add(ctx, st, WatchlistInput{AniListID: 21, Title: "ONE PIECE"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	items, err := svc.List(ctx, st, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 21, items[0].AniListID)
}

func TestWatchlistService_AddValidation(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()

	cases := []struct {
		name string
		in   WatchlistInput
		want error
	}{
		{"missing id", WatchlistInput{Title: "x"}, ErrAniListIDRequired},
		{"missing title", WatchlistInput{AniListID: 1}, ErrTitleRequired},
		{"bad status", WatchlistInput{AniListID: 1, Title: "x", Status: "dropped"}, ErrInvalidStatus},
		{"bad day", WatchlistInput{AniListID: 1, Title: "x", BroadcastDay: intPtr(7)}, ErrInvalidBroadcastDay},
		{"bad time", WatchlistInput{AniListID: 1, Title: "x", BroadcastTime: "25:00"}, ErrInvalidBroadcastAt},
		{"bad season", WatchlistInput{AniListID: 1, Title: "x", TargetSeason: "monsoon"}, ErrInvalidTargetSeason},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Add(ctx, st, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWatchlistService_ListFilter(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()

	_, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 1, Title: "planned implicitly"})
	require.NoError(t, err)
	_, _, err = svc.Add(ctx, st, WatchlistInput{AniListID: 2, Title: "watching", Status: models.StatusWatching})
	require.NoError(t, err)

	planned, err := svc.List(ctx, st, models.StatusPlanned)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, 1, planned[0].AniListID)

	_, err = svc.List(ctx, st, "nope")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestWatchlistService_Update(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()
	item, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 1, Title: "x", TargetSeason: "秋", TargetYear: intPtr(2025)})
	require.NoError(t, err)

	status := models.StatusWatching
	notify := true
	updated, err := svc.Update(ctx, st, item.ID, WatchlistPatch{Status: &status, Notify: &notify, ClearTarget: true})

	require.NoError(t, err)
	assert.Equal(t, models.StatusWatching, updated.Status)
	assert.True(t, updated.Notify)
	assert.Empty(t, updated.TargetSeason)
	assert.Nil(t, updated.TargetYear)

	bad := "25:61"
	_, err = svc.Update(ctx, st, item.ID, WatchlistPatch{BroadcastTime: &bad})
	assert.ErrorIs(t, err, ErrInvalidBroadcastAt)

	_, err = svc.Update(ctx, st, "missing", WatchlistPatch{})
	assert.ErrorIs(t, err, storage.ErrWatchlistItemNotFound)
}

func TestWatchlistService_MarkWatched(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()
	item, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 5, Title: "ダンジョン飯", TargetSeason: "冬", TargetYear: intPtr(2024)})
	require.NoError(t, err)

	anime, err := svc.MarkWatched(ctx, st, item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, "ダンジョン飯", anime.Title)
	assert.Equal(t, "2024年冬", anime.SeasonName)
	assert.True(t, anime.Watched)
	require.NotNil(t, anime.AniListID)
	assert.Equal(t, 5, *anime.AniListID)

	items, err := st.ListWatchlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	animes, err := st.ListAnimes(ctx)
	require.NoError(t, err)
	require.Len(t, animes, 1)
	assert.Equal(t, "ダンジョン飯", animes[0].Title)
}

func TestWatchlistService_MarkWatchedSeasonFallbacks(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()
	a, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 1, Title: "a"})
	require.NoError(t, err)
	b, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 2, Title: "b"})
	require.NoError(t, err)

	anime, err := svc.MarkWatched(ctx, st, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2025年春", anime.SeasonName)

	anime, err = svc.MarkWatched(ctx, st, b.ID, "2023年夏")
	require.NoError(t, err)
	assert.Equal(t, "2023年夏", anime.SeasonName)
}

func TestWatchlistService_MarkWatchedRemoveFails(t *testing.T) {
	ctx := context.Background()
	local := newLocalStore(t)
	st := failingRemoveStore{local}
	svc := newTestWatchlistService()
	item, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 1, Title: "x"})
	require.NoError(t, err)

	anime, err := svc.MarkWatched(ctx, st, item.ID, "")

	require.Error(t, err)
	require.NotNil(t, anime)
	animes, _ := local.ListAnimes(ctx)
	assert.Len(t, animes, 1, "anime row stays without rollback")
	items, _ := local.ListWatchlist(ctx)
	assert.Len(t, items, 1)
}

func TestWatchlistService_BulkMarkWatchedContinues(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := newTestWatchlistService()
	a, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 1, Title: "a"})
	require.NoError(t, err)
	b, _, err := svc.Add(ctx, st, WatchlistInput{AniListID: 2, Title: "b"})
	require.NoError(t, err)

	results := svc.BulkMarkWatched(ctx, st, []string{a.ID, "missing", b.ID}, "")

	require.Len(t, results, 3)
	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[0].AnimeID)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, results[2].Error)

	animes, err := st.ListAnimes(ctx)
	require.NoError(t, err)
	assert.Len(t, animes, 2)
}
