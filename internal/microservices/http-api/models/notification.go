package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMinutesBefore is the reminder lead time for users without settings.
const DefaultMinutesBefore = 10

type NotificationSettings struct {
	UserID        string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	Enabled       bool      `gorm:"not null" json:"enabled"`
	MinutesBefore int       `gorm:"not null" json:"minutes_before"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}

// PushSubscription is a browser Push API subscription.
type PushSubscription struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Endpoint  string    `gorm:"uniqueIndex;not null" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *PushSubscription) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
