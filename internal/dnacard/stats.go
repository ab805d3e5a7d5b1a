// Package dnacard computes viewing statistics, the otaku type and the
// shareable DNA card, and renders the card as JSON, YAML or Markdown.
package dnacard

import (
	"math"
	"sort"

	"animelog/internal/microservices/http-api/models"
	"animelog/internal/season"
)

const topTagLimit = 5

type SeasonCount struct {
	Season string `json:"season" yaml:"season"`
	Count  int    `json:"count" yaml:"count"`
}

type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarises an anime log.
type Stats struct {
	Total         int           `json:"total" yaml:"total"`
	Watched       int           `json:"watched" yaml:"watched"`
	Rated         int           `json:"rated" yaml:"rated"`
	AverageRating float64       `json:"average_rating" yaml:"average_rating"` // over non-zero ratings, 1 decimal
	RewatchTotal  int           `json:"rewatch_total" yaml:"rewatch_total"`
	DistinctTags  int           `json:"distinct_tags" yaml:"distinct_tags"`
	Seasons       []SeasonCount `json:"seasons" yaml:"seasons"` // newest first, 未分類 last
	TopTags       []TagCount    `json:"top_tags" yaml:"top_tags"`
}

// ComputeStats walks the log once and derives every counter.
func ComputeStats(animes []models.Anime) Stats {
	st := Stats{Total: len(animes), Seasons: []SeasonCount{}, TopTags: []TagCount{}}

	ratingSum := 0
	tags := map[string]int{}
	for _, a := range animes {
		if a.Watched {
			st.Watched++
		}
		if a.Rating > 0 {
			st.Rated++
			ratingSum += a.Rating
		}
		st.RewatchTotal += a.RewatchCount
		for _, t := range a.Tags {
			if t != "" {
				tags[t]++
			}
		}
	}
	if st.Rated > 0 {
		st.AverageRating = math.Round(float64(ratingSum)/float64(st.Rated)*10) / 10
	}

	for _, yg := range season.Group(animes, func(a models.Anime) string { return a.SeasonName }, season.GroupOptions{}) {
		for _, b := range yg.Seasons {
			st.Seasons = append(st.Seasons, SeasonCount{Season: b.Name, Count: len(b.Items)})
		}
	}

	st.DistinctTags = len(tags)
	for t, n := range tags {
		st.TopTags = append(st.TopTags, TagCount{Tag: t, Count: n})
	}
	sort.Slice(st.TopTags, func(i, j int) bool {
		if st.TopTags[i].Count != st.TopTags[j].Count {
			return st.TopTags[i].Count > st.TopTags[j].Count
		}
		return st.TopTags[i].Tag < st.TopTags[j].Tag
	})
	if len(st.TopTags) > topTagLimit {
		st.TopTags = st.TopTags[:topTagLimit]
	}
	return st
}

// classifiedSeasons counts the seasons that are not 未分類.
func (s Stats) classifiedSeasons() int {
	n := 0
	for _, sc := range s.Seasons {
		if sc.Season != season.Unclassified {
			n++
		}
	}
	return n
}

// Otaku types.
const (
	TypeLight     = "ライト視聴型"
	TypeRepeater  = "リピーター型"
	TypeSeasonal  = "シーズン皆勤型"
	TypeSelective = "厳選主義型"
	TypeExplorer  = "タグ探求型"
	TypeBalanced  = "バランス型"
)

// OtakuType classifies a log. Rules are checked in order, first hit wins.
func OtakuType(s Stats) string {
	switch {
	case s.Total < 5:
		return TypeLight
	case s.RewatchTotal*2 >= s.Total:
		return TypeRepeater
	case s.classifiedSeasons() >= 8 && s.Total >= s.classifiedSeasons()*3:
		return TypeSeasonal
	case s.Rated >= 5 && s.AverageRating >= 4.0:
		return TypeSelective
	case s.DistinctTags >= 10:
		return TypeExplorer
	}
	return TypeBalanced
}
