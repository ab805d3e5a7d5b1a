package dto

import "animelog/internal/microservices/http-api/models"

// AnimeRequest is the body of POST /animes and PUT /animes/:id.
type AnimeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Image        string   `json:"image"`
	Rating       int      `json:"rating" binding:"min=0,max=5"`
	Watched      bool     `json:"watched"`
	RewatchCount int      `json:"rewatch_count" binding:"min=0"`
	Tags         []string `json:"tags"`
	SeriesName   string   `json:"series_name"`
	Studios      []string `json:"studios"`
	SeasonName   string   `json:"season_name"`
	AniListID    *int     `json:"anilist_id"`
	AnnictID     *int     `json:"annict_id"`
}

type RatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type QuoteRequest struct {
	Text      string `json:"text" binding:"required"`
	Character string `json:"character"`
	Episode   string `json:"episode"`
}

type SongsRequest struct {
	OP *models.Song `json:"op"`
	ED *models.Song `json:"ed"`
}

type AnimeListResponse struct {
	Items []models.Anime `json:"items"`
	Total int            `json:"total"`
}
