package anilist

import (
	"context"
	"fmt"

	"animelog/internal/ingestion/gql"
)

// DefaultAPIURL is the public AniList GraphQL endpoint.
const DefaultAPIURL = "https://graphql.anilist.co"

const (
	// AniList allows ~90 requests per minute
	rateLimit = 1
	rateBurst = 5
)

const mediaFields = `
	id
	idMal
	title { english romaji native }
	coverImage { large medium }
	season
	seasonYear
	format
	episodes
	genres
	averageScore
	siteUrl
	studios(isMain: true) { nodes { name } }
	nextAiringEpisode { airingAt episode }
`

// Client queries AniList for anime metadata.
type Client struct {
	gql *gql.Client
}

// NewClient creates a client for apiURL. Extra options override the default
// rate limit.
func NewClient(apiURL string, opts ...gql.Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	base := []gql.Option{gql.WithRateLimit(rateLimit, rateBurst)}
	return &Client{gql: gql.NewClient("anilist", apiURL, append(base, opts...)...)}
}

// SearchAnime searches anime by title.
func (c *Client) SearchAnime(ctx context.Context, title string, perPage int) ([]Media, error) {
	query := `
	query ($search: String, $perPage: Int) {
		Page(page: 1, perPage: $perPage) {
			media(search: $search, type: ANIME, sort: SEARCH_MATCH) {` + mediaFields + `}
		}
	}`

	var result PageResponse
	if err := c.gql.Do(ctx, query, map[string]any{"search": title, "perPage": perPage}, &result); err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	return result.Page.Media, nil
}

// SeasonAnime lists the anime of one broadcast season. season is WINTER,
// SPRING, SUMMER or FALL.
func (c *Client) SeasonAnime(ctx context.Context, season string, year, page, perPage int) (*PageData, error) {
	query := `
	query ($season: MediaSeason, $seasonYear: Int, $page: Int, $perPage: Int) {
		Page(page: $page, perPage: $perPage) {
			pageInfo { total currentPage lastPage hasNextPage perPage }
			media(season: $season, seasonYear: $seasonYear, type: ANIME, sort: POPULARITY_DESC) {` + mediaFields + `}
		}
	}`

	variables := map[string]any{
		"season":     season,
		"seasonYear": year,
		"page":       page,
		"perPage":    perPage,
	}

	var result PageResponse
	if err := c.gql.Do(ctx, query, variables, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch season anime: %w", err)
	}
	return &result.Page, nil
}
