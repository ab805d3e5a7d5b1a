package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song is an opening or ending theme embedded in an Anime.
type Song struct {
	Title      string `json:"title"`
	Artist     string `json:"artist,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// Songs holds the OP/ED pair of an Anime.
type Songs struct {
	OP *Song `json:"op,omitempty"`
	ED *Song `json:"ed,omitempty"`
}

// Quote is a memorable line embedded in an Anime.
type Quote struct {
	Text      string `json:"text"`
	Character string `json:"character,omitempty"`
	Episode   string `json:"episode,omitempty"`
}

// Anime is one watched show, owned by a season.
type Anime struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Image        string    `json:"image,omitempty"`
	Rating       int       `gorm:"not null;check:rating >= 0 AND rating <= 5" json:"rating"` // 0 = unrated
	Watched      bool      `gorm:"not null" json:"watched"`
	RewatchCount int       `gorm:"not null" json:"rewatch_count"`
	Tags         []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	SeriesName   string    `json:"series_name,omitempty"`
	Studios      []string  `gorm:"type:jsonb;serializer:json" json:"studios"`
	SeasonName   string    `gorm:"index;not null" json:"season_name"`
	AniListID    *int      `gorm:"column:anilist_id" json:"anilist_id,omitempty"`
	AnnictID     *int      `gorm:"column:annict_id" json:"annict_id,omitempty"`
	Songs        *Songs    `gorm:"type:jsonb;serializer:json" json:"songs,omitempty"`
	Quotes       []Quote   `gorm:"type:jsonb;serializer:json" json:"quotes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID when the caller did not.
func (a *Anime) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (Anime) TableName() string {
	return "animes"
}
