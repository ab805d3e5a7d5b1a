package search

import (
	"strings"

	"animelog/internal/ingestion/anilist"
	"animelog/internal/ingestion/annict"
	"animelog/internal/season"
)

// Merge uses the Annict works as the base list. Each work takes the first
// unused AniList media whose romaji or native title contains, or is contained
// by, the work title. Unmatched media are appended in their original order.
func Merge(works []annict.Work, media []anilist.Media) []Item {
	used := make([]bool, len(media))
	items := make([]Item, 0, len(works)+len(media))

	for _, w := range works {
		item := fromWork(w)
		for i, m := range media {
			if used[i] || !titlesMatch(w.Title, m) {
				continue
			}
			used[i] = true
			enrich(&item, m)
			break
		}
		items = append(items, item)
	}

	for i, m := range media {
		if !used[i] {
			items = append(items, fromMedia(m))
		}
	}
	return items
}

func titlesMatch(annictTitle string, m anilist.Media) bool {
	a := normalize(annictTitle)
	if a == "" {
		return false
	}
	for _, t := range []*string{m.Title.Romaji, m.Title.Native} {
		if t == nil {
			continue
		}
		b := normalize(*t)
		if b == "" {
			continue
		}
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func fromWork(w annict.Work) Item {
	id := w.AnnictID
	item := Item{
		Title:     w.Title,
		TitleKana: w.TitleKana,
		Image:     w.ImageURL(),
		Episodes:  w.EpisodesCount,
		AnnictID:  &id,
		SiteURL:   w.OfficialSiteURL,
		Season:    season.Unclassified,
		Source:    SourceAnnict,
	}
	if w.SeasonYear != nil {
		item.Season = season.FromParts(*w.SeasonYear, w.SeasonName)
	}
	return item
}

func enrich(item *Item, m anilist.Media) {
	id := m.ID
	item.AniListID = &id
	item.TitleRomaji = deref(m.Title.Romaji)
	item.TitleNative = deref(m.Title.Native)
	item.Studios = m.StudioNames()
	item.Genres = m.Genres
	if item.Image == "" {
		item.Image = m.Image()
	}
	if item.Episodes == 0 && m.Episodes != nil {
		item.Episodes = *m.Episodes
	}
	if item.Season == season.Unclassified && m.SeasonYear != nil {
		item.Season = season.FromParts(*m.SeasonYear, m.Season)
	}
	item.Source = SourceBoth
}

func fromMedia(m anilist.Media) Item {
	id := m.ID
	item := Item{
		Title:       m.DisplayTitle(),
		TitleRomaji: deref(m.Title.Romaji),
		TitleNative: deref(m.Title.Native),
		Image:       m.Image(),
		Studios:     m.StudioNames(),
		Genres:      m.Genres,
		AniListID:   &id,
		SiteURL:     m.SiteURL,
		Season:      season.Unclassified,
		Source:      SourceAniList,
	}
	if m.Episodes != nil {
		item.Episodes = *m.Episodes
	}
	if m.SeasonYear != nil {
		item.Season = season.FromParts(*m.SeasonYear, m.Season)
	}
	return item
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
