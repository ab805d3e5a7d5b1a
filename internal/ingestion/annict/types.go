package annict

// SearchWorksResponse is the data member of a searchWorks query.
type SearchWorksResponse struct {
	SearchWorks WorkConnection `json:"searchWorks"`
}

type WorkConnection struct {
	Nodes []Work `json:"nodes"`
}

// Work is an Annict anime entry.
type Work struct {
	AnnictID        int        `json:"annictId"`
	Title           string     `json:"title"`
	TitleKana       string     `json:"titleKana"`
	TitleEn         string     `json:"titleEn"`
	Media           string     `json:"media"`      // TV, OVA, MOVIE, WEB, OTHER
	SeasonName      string     `json:"seasonName"` // WINTER, SPRING, SUMMER, AUTUMN
	SeasonYear      *int       `json:"seasonYear"`
	EpisodesCount   int        `json:"episodesCount"`
	WatchersCount   int        `json:"watchersCount"`
	OfficialSiteURL string     `json:"officialSiteUrl"`
	Image           *WorkImage `json:"image"`
}

type WorkImage struct {
	RecommendedImageURL string `json:"recommendedImageUrl"`
	FacebookOgImageURL  string `json:"facebookOgImageUrl"`
}

// ImageURL returns the best available image.
func (w Work) ImageURL() string {
	if w.Image == nil {
		return ""
	}
	if w.Image.RecommendedImageURL != "" {
		return w.Image.RecommendedImageURL
	}
	return w.Image.FacebookOgImageURL
}
