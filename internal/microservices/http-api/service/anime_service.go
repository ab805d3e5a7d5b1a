package service

import (
	"context"
	"strings"
	"time"

	"animelog/internal/apperr"
	"animelog/internal/dnacard"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"
	"animelog/internal/season"

	"go.uber.org/zap"
)

var (
	ErrInvalidRating = apperr.Invalid("rating must be between 1 and 5")
	ErrTitleRequired = apperr.Invalid("title is required")
	ErrInvalidSeason = apperr.Invalid("season must look like 2024年秋 or be 未分類")
	ErrQuoteIndex    = apperr.Invalid("quote index out of range")
	ErrQuoteText     = apperr.Invalid("quote text is required")
)

// AnimeInput carries the editable fields of an anime entry.
type AnimeInput struct {
	Title        string
	Image        string
	Rating       int
	Watched      bool
	RewatchCount int
	Tags         []string
	SeriesName   string
	Studios      []string
	SeasonName   string
	AniListID    *int
	AnnictID     *int
}

type AnimeService interface {
	Seasons(ctx context.Context, st storage.Store, backfill bool) ([]season.YearGroup[models.Anime], error)
	List(ctx context.Context, st storage.Store) ([]models.Anime, error)
	Get(ctx context.Context, st storage.Store, id string) (*models.Anime, error)
	Add(ctx context.Context, st storage.Store, in AnimeInput) (*models.Anime, error)
	Update(ctx context.Context, st storage.Store, id string, in AnimeInput) (*models.Anime, error)
	Delete(ctx context.Context, st storage.Store, id string) error
	Rate(ctx context.Context, st storage.Store, id string, rating int) (*models.Anime, error)
	AddQuote(ctx context.Context, st storage.Store, id string, q models.Quote) (*models.Anime, error)
	RemoveQuote(ctx context.Context, st storage.Store, id string, index int) (*models.Anime, error)
	SetSongs(ctx context.Context, st storage.Store, id string, songs models.Songs) (*models.Anime, error)
	Stats(ctx context.Context, st storage.Store) (*dnacard.Stats, error)
	DNACard(ctx context.Context, st storage.Store) (*dnacard.Card, error)
}

type animeService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewAnimeService(logger *zap.Logger) AnimeService {
	return &animeService{logger: logger, now: time.Now}
}

func (s *animeService) Seasons(ctx context.Context, st storage.Store, backfill bool) ([]season.YearGroup[models.Anime], error) {
	animes, err := st.ListAnimes(ctx)
	if err != nil {
		s.logger.Error("failed to load anime log", zap.String("owner", st.Owner()), zap.Error(err))
		return nil, err
	}
	groups := season.Group(animes, func(a models.Anime) string { return a.SeasonName },
		season.GroupOptions{Backfill: backfill, Now: s.now()})
	return groups, nil
}

func (s *animeService) List(ctx context.Context, st storage.Store) ([]models.Anime, error) {
	return st.ListAnimes(ctx)
}

func (s *animeService) Get(ctx context.Context, st storage.Store, id string) (*models.Anime, error) {
	return st.GetAnime(ctx, id)
}

func (s *animeService) Add(ctx context.Context, st storage.Store, in AnimeInput) (*models.Anime, error) {
	seasonName, err := s.validate(&in)
	if err != nil {
		return nil, err
	}

	anime := &models.Anime{Quotes: []models.Quote{}}
	applyInput(anime, in, seasonName)
	if err := st.SaveAnime(ctx, anime); err != nil {
		s.logger.Error("failed to save anime", zap.String("owner", st.Owner()), zap.Error(err))
		return nil, err
	}
	return anime, nil
}

func (s *animeService) Update(ctx context.Context, st storage.Store, id string, in AnimeInput) (*models.Anime, error) {
	seasonName, err := s.validate(&in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, st, id, func(a *models.Anime) error {
		applyInput(a, in, seasonName)
		return nil
	})
}

func (s *animeService) Delete(ctx context.Context, st storage.Store, id string) error {
	return st.DeleteAnime(ctx, id)
}

func (s *animeService) Rate(ctx context.Context, st storage.Store, id string, rating int) (*models.Anime, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return s.mutate(ctx, st, id, func(a *models.Anime) error {
		a.Rating = rating
		return nil
	})
}

func (s *animeService) AddQuote(ctx context.Context, st storage.Store, id string, q models.Quote) (*models.Anime, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, ErrQuoteText
	}
	return s.mutate(ctx, st, id, func(a *models.Anime) error {
		a.Quotes = append(a.Quotes, q)
		return nil
	})
}

func (s *animeService) RemoveQuote(ctx context.Context, st storage.Store, id string, index int) (*models.Anime, error) {
	return s.mutate(ctx, st, id, func(a *models.Anime) error {
		if index < 0 || index >= len(a.Quotes) {
			return ErrQuoteIndex
		}
		a.Quotes = append(a.Quotes[:index], a.Quotes[index+1:]...)
		return nil
	})
}

func (s *animeService) SetSongs(ctx context.Context, st storage.Store, id string, songs models.Songs) (*models.Anime, error) {
	return s.mutate(ctx, st, id, func(a *models.Anime) error {
		if songs.OP == nil && songs.ED == nil {
			a.Songs = nil
			return nil
		}
		a.Songs = &songs
		return nil
	})
}

func (s *animeService) Stats(ctx context.Context, st storage.Store) (*dnacard.Stats, error) {
	animes, err := st.ListAnimes(ctx)
	if err != nil {
		return nil, err
	}
	stats := dnacard.ComputeStats(animes)
	return &stats, nil
}

func (s *animeService) DNACard(ctx context.Context, st storage.Store) (*dnacard.Card, error) {
	animes, err := st.ListAnimes(ctx)
	if err != nil {
		return nil, err
	}
	chars, err := st.ListFavoriteCharacters(ctx)
	if err != nil {
		// the card is still useful without the character count
		s.logger.Warn("failed to load favorite characters", zap.String("owner", st.Owner()), zap.Error(err))
		chars = nil
	}
	card := dnacard.Build(animes, chars, s.now())
	return &card, nil
}

// mutate loads, edits and saves one entry.
func (s *animeService) mutate(ctx context.Context, st storage.Store, id string, edit func(*models.Anime) error) (*models.Anime, error) {
	anime, err := st.GetAnime(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := edit(anime); err != nil {
		return nil, err
	}
	if err := st.SaveAnime(ctx, anime); err != nil {
		s.logger.Error("failed to save anime", zap.String("owner", st.Owner()), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return anime, nil
}

// validate checks in and returns the season name to store.
func (s *animeService) validate(in *AnimeInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "", ErrTitleRequired
	}
	if in.Rating < 0 || in.Rating > 5 {
		return "", ErrInvalidRating
	}
	if in.RewatchCount < 0 {
		return "", apperr.Invalid("rewatch count must not be negative")
	}
	name := strings.TrimSpace(in.SeasonName)
	switch {
	case name == "":
		return season.Current(s.now()), nil
	case name == season.Unclassified:
		return name, nil
	}
	if _, ok := season.Parse(name); !ok {
		return "", ErrInvalidSeason
	}
	return name, nil
}

func applyInput(a *models.Anime, in AnimeInput, seasonName string) {
	a.Title = in.Title
	a.Image = in.Image
	a.Rating = in.Rating
	a.Watched = in.Watched
	a.RewatchCount = in.RewatchCount
	a.Tags = nonNil(in.Tags)
	a.SeriesName = in.SeriesName
	a.Studios = nonNil(in.Studios)
	a.SeasonName = seasonName
	a.AniListID = in.AniListID
	a.AnnictID = in.AnnictID
	if a.Quotes == nil {
		a.Quotes = []models.Quote{}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
