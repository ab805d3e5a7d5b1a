package repository

import (
	"context"
	"fmt"

	"animelog/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	GetByID(ctx context.Context, userID, id string) (*models.WatchlistItem, error)
	FindByAniListID(ctx context.Context, userID string, anilistID int) (*models.WatchlistItem, error)
	Create(ctx context.Context, item *models.WatchlistItem) error
	Update(ctx context.Context, item *models.WatchlistItem) error
	Delete(ctx context.Context, userID, id string) error
	// ListScheduled returns items of every user that want broadcast reminders.
	ListScheduled(ctx context.Context) ([]models.WatchlistItem, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

func (r *watchlistRepository) GetByID(ctx context.Context, userID, id string) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *watchlistRepository) FindByAniListID(ctx context.Context, userID string, anilistID int) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND anilist_id = ?", userID, anilistID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *watchlistRepository) Create(ctx context.Context, item *models.WatchlistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Update(ctx context.Context, item *models.WatchlistItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("update watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return fmt.Errorf("remove from watchlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *watchlistRepository) ListScheduled(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("notify = ? AND broadcast_day IS NOT NULL AND broadcast_time <> ''", true).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list scheduled watchlist items: %w", err)
	}
	return items, nil
}
