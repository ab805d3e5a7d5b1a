package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Watchlist statuses. An empty status is treated as planned.
const (
	StatusPlanned   = "planned"
	StatusWatching  = "watching"
	StatusCompleted = "completed"
)

// WatchlistItem is an entry in the backlog (積みアニメ).
type WatchlistItem struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string    `gorm:"type:uuid;uniqueIndex:idx_watchlist_user_anilist" json:"user_id,omitempty"`
	AniListID      int       `gorm:"column:anilist_id;not null;uniqueIndex:idx_watchlist_user_anilist" json:"anilist_id"`
	Title          string    `gorm:"not null" json:"title"`
	Image          string    `json:"image,omitempty"`
	Status         string    `gorm:"index" json:"status,omitempty"`
	TargetSeason   string    `json:"target_season,omitempty"` // 冬/春/夏/秋 or winter/spring/summer/fall
	TargetYear     *int      `json:"target_year,omitempty"`
	BroadcastDay   *int      `json:"broadcast_day,omitempty"` // 0 = Sunday
	BroadcastTime  string    `json:"broadcast_time,omitempty"` // "HH:MM" JST
	StreamingSites []string  `gorm:"type:jsonb;serializer:json" json:"streaming_sites,omitempty"`
	Notify         bool      `gorm:"not null" json:"notify"`
	CreatedAt      time.Time `json:"created_at"`
}

// EffectiveStatus treats an unset status as planned.
func (w WatchlistItem) EffectiveStatus() string {
	if w.Status == "" {
		return StatusPlanned
	}
	return w.Status
}

func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

func (WatchlistItem) TableName() string {
	return "watchlist"
}

// IsValidStatus reports whether s is an accepted watchlist status.
func IsValidStatus(s string) bool {
	switch s {
	case "", StatusPlanned, StatusWatching, StatusCompleted:
		return true
	}
	return false
}
