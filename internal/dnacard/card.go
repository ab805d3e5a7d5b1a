package dnacard

import (
	"sort"
	"time"

	"animelog/internal/microservices/http-api/models"
)

const topAnimeLimit = 5

type Entry struct {
	Title  string `json:"title" yaml:"title"`
	Rating int    `json:"rating" yaml:"rating"`
	Season string `json:"season" yaml:"season"`
	Image  string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Card is the shareable taste summary.
type Card struct {
	OtakuType          string    `json:"otaku_type" yaml:"otaku_type"`
	TopAnime           []Entry   `json:"top_anime" yaml:"top_anime"`
	FavoriteTags       []string  `json:"favorite_tags" yaml:"favorite_tags"`
	FavoriteCharacters int       `json:"favorite_characters" yaml:"favorite_characters"`
	FavoriteSongs      int       `json:"favorite_songs" yaml:"favorite_songs"`
	Stats              Stats     `json:"stats" yaml:"stats"`
	GeneratedAt        time.Time `json:"generated_at" yaml:"generated_at"`
}

// Build assembles a card from the log and the favorite characters.
func Build(animes []models.Anime, characters []models.FavoriteCharacter, now time.Time) Card {
	stats := ComputeStats(animes)
	card := Card{
		OtakuType:          OtakuType(stats),
		TopAnime:           topRated(animes),
		FavoriteTags:       make([]string, 0, len(stats.TopTags)),
		FavoriteCharacters: len(characters),
		Stats:              stats,
		GeneratedAt:        now.UTC(),
	}
	for _, t := range stats.TopTags {
		card.FavoriteTags = append(card.FavoriteTags, t.Tag)
	}
	for _, a := range animes {
		if a.Songs == nil {
			continue
		}
		for _, s := range []*models.Song{a.Songs.OP, a.Songs.ED} {
			if s != nil && s.IsFavorite {
				card.FavoriteSongs++
			}
		}
	}
	return card
}

// topRated keeps rated anime only, rating desc then title.
func topRated(animes []models.Anime) []Entry {
	rated := make([]models.Anime, 0, len(animes))
	for _, a := range animes {
		if a.Rating > 0 {
			rated = append(rated, a)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].Rating != rated[j].Rating {
			return rated[i].Rating > rated[j].Rating
		}
		return rated[i].Title < rated[j].Title
	})
	if len(rated) > topAnimeLimit {
		rated = rated[:topAnimeLimit]
	}

	entries := make([]Entry, 0, len(rated))
	for _, a := range rated {
		entries = append(entries, Entry{Title: a.Title, Rating: a.Rating, Season: a.SeasonName, Image: a.Image})
	}
	return entries
}
