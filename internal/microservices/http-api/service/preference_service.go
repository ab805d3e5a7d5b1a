package service

import (
	"context"
	"strings"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"

	"github.com/google/uuid"
)

var ErrCharacterName = apperr.Invalid("character name is required")

// PreferenceService covers the small per-owner features kept as blobs:
// favorite characters, dismissed suggestions and UI preferences.
type PreferenceService interface {
	FavoriteCharacters(ctx context.Context, st storage.Store) ([]models.FavoriteCharacter, error)
	SaveFavoriteCharacters(ctx context.Context, st storage.Store, chars []models.FavoriteCharacter) ([]models.FavoriteCharacter, error)
	DismissedSuggestions(ctx context.Context, st storage.Store) ([]int, error)
	DismissSuggestion(ctx context.Context, st storage.Store, anilistID int) error
	Preferences(ctx context.Context, st storage.Store) (models.Preferences, error)
	SavePreferences(ctx context.Context, st storage.Store, prefs models.Preferences) error
}

type preferenceService struct{}

func NewPreferenceService() PreferenceService {
	return &preferenceService{}
}

func (s *preferenceService) FavoriteCharacters(ctx context.Context, st storage.Store) ([]models.FavoriteCharacter, error) {
	return st.ListFavoriteCharacters(ctx)
}

// SaveFavoriteCharacters replaces the whole list, assigning ids to new
// entries.
func (s *preferenceService) SaveFavoriteCharacters(ctx context.Context, st storage.Store, chars []models.FavoriteCharacter) ([]models.FavoriteCharacter, error) {
	out := make([]models.FavoriteCharacter, 0, len(chars))
	for _, c := range chars {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, ErrCharacterName
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		out = append(out, c)
	}
	if err := st.SaveFavoriteCharacters(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *preferenceService) DismissedSuggestions(ctx context.Context, st storage.Store) ([]int, error) {
	return st.ListDismissedSuggestions(ctx)
}

func (s *preferenceService) DismissSuggestion(ctx context.Context, st storage.Store, anilistID int) error {
	if anilistID <= 0 {
		return ErrAniListIDRequired
	}
	return st.DismissSuggestion(ctx, anilistID)
}

func (s *preferenceService) Preferences(ctx context.Context, st storage.Store) (models.Preferences, error) {
	return st.Preferences(ctx)
}

func (s *preferenceService) SavePreferences(ctx context.Context, st storage.Store, prefs models.Preferences) error {
	return st.SavePreferences(ctx, prefs)
}
