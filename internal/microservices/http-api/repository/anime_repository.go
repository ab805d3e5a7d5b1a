package repository

import (
	"context"
	"fmt"

	"animelog/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type AnimeRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Anime, error)
	GetByID(ctx context.Context, userID, id string) (*models.Anime, error)
	Save(ctx context.Context, anime *models.Anime) error
	Delete(ctx context.Context, userID, id string) error
}

type animeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) AnimeRepository {
	return &animeRepository{db: db}
}

func (r *animeRepository) ListByUser(ctx context.Context, userID string) ([]models.Anime, error) {
	var list []models.Anime
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	return list, nil
}

func (r *animeRepository) GetByID(ctx context.Context, userID, id string) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Save inserts or replaces the row by primary key.
func (r *animeRepository) Save(ctx context.Context, anime *models.Anime) error {
	if err := r.db.WithContext(ctx).Save(anime).Error; err != nil {
		return fmt.Errorf("save anime: %w", err)
	}
	return nil
}

func (r *animeRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.Anime{})
	if result.Error != nil {
		return fmt.Errorf("delete anime: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
