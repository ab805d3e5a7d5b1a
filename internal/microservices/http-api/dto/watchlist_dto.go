package dto

import "animelog/internal/microservices/http-api/models"

type WatchlistRequest struct {
	AniListID      int      `json:"anilist_id" binding:"required"`
	Title          string   `json:"title" binding:"required"`
	Image          string   `json:"image"`
	Status         string   `json:"status"`
	TargetSeason   string   `json:"target_season"`
	TargetYear     *int     `json:"target_year"`
	BroadcastDay   *int     `json:"broadcast_day"`
	BroadcastTime  string   `json:"broadcast_time"`
	StreamingSites []string `json:"streaming_sites"`
	Notify         bool     `json:"notify"`
}

// WatchlistPatchRequest only changes the fields that are present.
type WatchlistPatchRequest struct {
	Status         *string  `json:"status"`
	TargetSeason   *string  `json:"target_season"`
	TargetYear     *int     `json:"target_year"`
	ClearTarget    bool     `json:"clear_target"`
	BroadcastDay   *int     `json:"broadcast_day"`
	BroadcastTime  *string  `json:"broadcast_time"`
	StreamingSites []string `json:"streaming_sites"`
	Notify         *bool    `json:"notify"`
}

type MarkWatchedRequest struct {
	SeasonName string `json:"season_name"`
}

type BulkWatchedRequest struct {
	IDs        []string `json:"ids" binding:"required,min=1"`
	SeasonName string   `json:"season_name"`
}

type WatchlistListResponse struct {
	Items []models.WatchlistItem `json:"items"`
	Total int                    `json:"total"`
}

type RolloverResolveRequest struct {
	Choice string `json:"choice" binding:"required,oneof=backlog watching delete"`
}

type DismissRequest struct {
	AniListID int `json:"anilist_id" binding:"required"`
}
