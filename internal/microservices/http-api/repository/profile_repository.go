package repository

import (
	"context"
	"fmt"

	"animelog/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.UserProfile, error)
	FindByHandle(ctx context.Context, handle string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindByHandle(ctx context.Context, handle string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
