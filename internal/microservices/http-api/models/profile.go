package models

import "time"

type UserProfile struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"` // user id issued by the auth backend
	Username  string    `gorm:"not null" json:"username"`
	Handle    string    `gorm:"uniqueIndex;not null" json:"handle"`
	Bio       string    `json:"bio,omitempty"`
	IsPublic  bool      `gorm:"not null" json:"is_public"`
	OtakuType string    `json:"otaku_type,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
