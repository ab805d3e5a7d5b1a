package repository

import (
	"context"
	"fmt"

	"animelog/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, review *models.Review) error
	ListByAnime(ctx context.Context, animeID string) ([]models.Review, error)
	Delete(ctx context.Context, userID, animeID string) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert keeps one review per (user, anime). review is reloaded afterwards so
// an update hands back the existing row's id and created_at.
func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "anime_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "rating", "has_spoiler", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	var stored models.Review
	if err := db.Where("user_id = ? AND anime_id = ?", review.UserID, review.AnimeID).First(&stored).Error; err != nil {
		return fmt.Errorf("reload review: %w", err)
	}
	*review = stored
	return nil
}

func (r *reviewRepository) ListByAnime(ctx context.Context, animeID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("anime_id = ?", animeID).
		Order("updated_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(ctx context.Context, userID, animeID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		Delete(&models.Review{})
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
