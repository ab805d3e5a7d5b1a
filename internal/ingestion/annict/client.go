package annict

import (
	"context"
	"errors"
	"fmt"

	"animelog/internal/ingestion/gql"
)

// DefaultAPIURL is the public Annict GraphQL endpoint.
const DefaultAPIURL = "https://api.annict.com/graphql"

// ErrNoToken is returned by every call when no access token is configured.
var ErrNoToken = errors.New("annict: access token not configured")

const workFields = `
	annictId
	title
	titleKana
	titleEn
	media
	seasonName
	seasonYear
	episodesCount
	watchersCount
	officialSiteUrl
	image { recommendedImageUrl facebookOgImageUrl }
`

// Client queries Annict. Every request needs a personal access token.
type Client struct {
	gql     *gql.Client
	enabled bool
}

func NewClient(apiURL, token string, opts ...gql.Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	base := []gql.Option{gql.WithRateLimit(1, 5), gql.WithToken(token)}
	return &Client{
		gql:     gql.NewClient("annict", apiURL, append(base, opts...)...),
		enabled: token != "",
	}
}

// SearchWorks searches works by title, most watched first.
func (c *Client) SearchWorks(ctx context.Context, title string, first int) ([]Work, error) {
	if !c.enabled {
		return nil, ErrNoToken
	}
	query := `
	query ($titles: [String!], $first: Int) {
		searchWorks(titles: $titles, first: $first, orderBy: { field: WATCHERS_COUNT, direction: DESC }) {
			nodes {` + workFields + `}
		}
	}`

	var result SearchWorksResponse
	if err := c.gql.Do(ctx, query, map[string]any{"titles": []string{title}, "first": first}, &result); err != nil {
		return nil, fmt.Errorf("failed to search works: %w", err)
	}
	return result.SearchWorks.Nodes, nil
}

// SeasonWorks lists the works of a season. seasonCode is Annict's
// "2024-autumn" form.
func (c *Client) SeasonWorks(ctx context.Context, seasonCode string, first int) ([]Work, error) {
	if !c.enabled {
		return nil, ErrNoToken
	}
	query := `
	query ($seasons: [String!], $first: Int) {
		searchWorks(seasons: $seasons, first: $first, orderBy: { field: WATCHERS_COUNT, direction: DESC }) {
			nodes {` + workFields + `}
		}
	}`

	var result SearchWorksResponse
	if err := c.gql.Do(ctx, query, map[string]any{"seasons": []string{seasonCode}, "first": first}, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch season works: %w", err)
	}
	return result.SearchWorks.Nodes, nil
}
