package service

import (
	"context"
	"errors"
	"strings"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewBody     = apperr.Invalid("review body is required")
	ErrReviewNotFound = apperr.NotFound("review not found")
)

type ReviewInput struct {
	Body       string
	Rating     int
	HasSpoiler bool
}

type ReviewService interface {
	Upsert(ctx context.Context, userID, animeID string, in ReviewInput) (*models.Review, error)
	ListByAnime(ctx context.Context, animeID string) ([]models.Review, error)
	Delete(ctx context.Context, userID, animeID string) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	animes  repository.AnimeRepository
}

func NewReviewService(reviews repository.ReviewRepository, animes repository.AnimeRepository) ReviewService {
	return &reviewService{reviews: reviews, animes: animes}
}

// Upsert keeps one review per user and anime. The anime must be in the
// user's own log.
func (s *reviewService) Upsert(ctx context.Context, userID, animeID string, in ReviewInput) (*models.Review, error) {
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" {
		return nil, ErrReviewBody
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.animes.GetByID(ctx, userID, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("anime not found")
		}
		return nil, err
	}

	review := &models.Review{
		UserID:     userID,
		AnimeID:    animeID,
		Body:       in.Body,
		Rating:     in.Rating,
		HasSpoiler: in.HasSpoiler,
	}
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByAnime(ctx context.Context, animeID string) ([]models.Review, error) {
	return s.reviews.ListByAnime(ctx, animeID)
}

func (s *reviewService) Delete(ctx context.Context, userID, animeID string) error {
	err := s.reviews.Delete(ctx, userID, animeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	return err
}
