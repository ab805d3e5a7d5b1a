package search

// Sources of a merged item.
const (
	SourceAnnict  = "annict"
	SourceAniList = "anilist"
	SourceBoth    = "both"
)

// Item is one anime unified across AniList and Annict.
type Item struct {
	Title       string   `json:"title"`
	TitleRomaji string   `json:"title_romaji,omitempty"`
	TitleNative string   `json:"title_native,omitempty"`
	TitleKana   string   `json:"title_kana,omitempty"`
	Image       string   `json:"image,omitempty"`
	Season      string   `json:"season"`
	Episodes    int      `json:"episodes,omitempty"`
	Studios     []string `json:"studios,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	AniListID   *int     `json:"anilist_id,omitempty"`
	AnnictID    *int     `json:"annict_id,omitempty"`
	SiteURL     string   `json:"site_url,omitempty"`
	Source      string   `json:"source"`
}

// Result of a search. Partial is set when one upstream failed and Failed
// names it.
type Result struct {
	Items   []Item   `json:"items"`
	Partial bool     `json:"partial"`
	Failed  []string `json:"failed,omitempty"`
}
