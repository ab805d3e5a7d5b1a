package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_anime" json:"user_id"`
	AnimeID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_anime;index" json:"anime_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	HasSpoiler bool      `gorm:"not null" json:"has_spoiler"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}
