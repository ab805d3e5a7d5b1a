package models

// FavoriteCharacter is stored as a flat per-owner list in the key-value tier.
type FavoriteCharacter struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AnimeID    string `json:"anime_id,omitempty"`
	AnimeTitle string `json:"anime_title,omitempty"`
	Image      string `json:"image,omitempty"`
	Category   string `json:"category,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Preferences are small UI settings kept in the key-value tier.
type Preferences struct {
	DarkMode bool `json:"dark_mode"`
}
