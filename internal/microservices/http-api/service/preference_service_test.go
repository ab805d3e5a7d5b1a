package service

import (
	"context"
	"testing"

	"animelog/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_FavoriteCharacters(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := NewPreferenceService()

	_, err := svc.SaveFavoriteCharacters(ctx, st, []models.FavoriteCharacter{{Name: " "}})
	assert.ErrorIs(t, err, ErrCharacterName)

	saved, err := svc.SaveFavoriteCharacters(ctx, st, []models.FavoriteCharacter{{Name: "猫猫", AnimeTitle: "薬屋のひとりごと"}})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotEmpty(t, saved[0].ID)

	chars, err := svc.FavoriteCharacters(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, saved, chars)
}

func TestPreferenceService_DismissAndPrefs(t *testing.T) {
	ctx := context.Background()
	st := newLocalStore(t)
	svc := NewPreferenceService()

	assert.ErrorIs(t, svc.DismissSuggestion(ctx, st, 0), ErrAniListIDRequired)
	require.NoError(t, svc.DismissSuggestion(ctx, st, 30))
	ids, err := svc.DismissedSuggestions(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []int{30}, ids)

	require.NoError(t, svc.SavePreferences(ctx, st, models.Preferences{DarkMode: true}))
	prefs, err := svc.Preferences(ctx, st)
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
}
