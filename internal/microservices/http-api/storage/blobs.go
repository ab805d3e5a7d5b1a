package storage

import (
	"context"
	"slices"

	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/models"
)

// blobs implements the features both tiers keep in the key-value store.
type blobs struct {
	kv     kvstore.Store
	prefix string
}

func (b blobs) key(feature string) string { return b.prefix + feature }

func (b blobs) ListFavoriteCharacters(ctx context.Context) ([]models.FavoriteCharacter, error) {
	chars := []models.FavoriteCharacter{}
	if _, err := kvstore.GetJSON(ctx, b.kv, b.key(featureFavorites), &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

func (b blobs) SaveFavoriteCharacters(ctx context.Context, chars []models.FavoriteCharacter) error {
	if chars == nil {
		chars = []models.FavoriteCharacter{}
	}
	return kvstore.SetJSON(ctx, b.kv, b.key(featureFavorites), chars)
}

func (b blobs) ListDismissedSuggestions(ctx context.Context) ([]int, error) {
	ids := []int{}
	if _, err := kvstore.GetJSON(ctx, b.kv, b.key(featureDismissed), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (b blobs) DismissSuggestion(ctx context.Context, anilistID int) error {
	unlock := lockOwner(b.prefix)
	defer unlock()

	ids, err := b.ListDismissedSuggestions(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, anilistID) {
		return nil
	}
	return kvstore.SetJSON(ctx, b.kv, b.key(featureDismissed), append(ids, anilistID))
}

func (b blobs) SeasonMarker(ctx context.Context) (string, error) {
	var marker string
	if _, err := kvstore.GetJSON(ctx, b.kv, b.key(featureSeason), &marker); err != nil {
		return "", err
	}
	return marker, nil
}

func (b blobs) SetSeasonMarker(ctx context.Context, season string) error {
	return kvstore.SetJSON(ctx, b.kv, b.key(featureSeason), season)
}

func (b blobs) Preferences(ctx context.Context) (models.Preferences, error) {
	var prefs models.Preferences
	if _, err := kvstore.GetJSON(ctx, b.kv, b.key(featurePrefs), &prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func (b blobs) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	return kvstore.SetJSON(ctx, b.kv, b.key(featurePrefs), prefs)
}
