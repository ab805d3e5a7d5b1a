package dto

type ProfileRequest struct {
	Username  string `json:"username" binding:"required"`
	Handle    string `json:"handle" binding:"required"`
	Bio       string `json:"bio" binding:"max=500"`
	AvatarURL string `json:"avatar_url"`
	IsPublic  bool   `json:"is_public"`
}

type ReviewRequest struct {
	Body       string `json:"body" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	HasSpoiler bool   `json:"has_spoiler"`
}

type NotificationSettingsRequest struct {
	Enabled       bool `json:"enabled"`
	MinutesBefore int  `json:"minutes_before" binding:"min=0,max=1440"`
}

// SubscriptionRequest mirrors the browser's PushSubscription.toJSON().
type SubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

type DeleteAccountResponse struct {
	Deleted map[string]int64 `json:"deleted"`
}
