package anilist

import "strings"

// PageResponse is the data member of a paginated media query.
type PageResponse struct {
	Page PageData `json:"Page"`
}

type PageData struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []Media  `json:"media"`
}

type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// Media is an ANIME entry.
type Media struct {
	ID           int         `json:"id"`
	IDMal        *int        `json:"idMal"`
	Title        Title       `json:"title"`
	CoverImage   CoverImage  `json:"coverImage"`
	Season       string      `json:"season"` // WINTER, SPRING, SUMMER, FALL
	SeasonYear   *int        `json:"seasonYear"`
	Format       string      `json:"format"`
	Episodes     *int        `json:"episodes"`
	Genres       []string    `json:"genres"`
	AverageScore *int        `json:"averageScore"` // 0-100
	SiteURL      string      `json:"siteUrl"`
	Studios      StudioConn  `json:"studios"`
	NextAiring   *AiringNode `json:"nextAiringEpisode"`
}

type Title struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
	Native  *string `json:"native"`
}

type CoverImage struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

type StudioConn struct {
	Nodes []Studio `json:"nodes"`
}

type Studio struct {
	Name string `json:"name"`
}

type AiringNode struct {
	AiringAt int64 `json:"airingAt"` // Unix timestamp
	Episode  int   `json:"episode"`
}

// DisplayTitle prefers native, then romaji, then english.
func (m Media) DisplayTitle() string {
	for _, t := range []*string{m.Title.Native, m.Title.Romaji, m.Title.English} {
		if t != nil && strings.TrimSpace(*t) != "" {
			return strings.TrimSpace(*t)
		}
	}
	return ""
}

// Image returns the largest available cover URL.
func (m Media) Image() string {
	if m.CoverImage.Large != nil {
		return *m.CoverImage.Large
	}
	if m.CoverImage.Medium != nil {
		return *m.CoverImage.Medium
	}
	return ""
}

// StudioNames lists the main studios.
func (m Media) StudioNames() []string {
	names := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		names = append(names, s.Name)
	}
	return names
}
