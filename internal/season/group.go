package season

import (
	"sort"
	"strconv"
	"time"
)

// firstYear is the earliest year emitted when backfilling empty seasons.
const firstYear = 1970

// Bucket holds the items of one season, in input order.
type Bucket[T any] struct {
	Name  string `json:"name"`
	Items []T    `json:"items"`
}

// YearGroup holds the seasons of one year, newest first. The unclassified
// group has Year 0 and Label Unclassified.
type YearGroup[T any] struct {
	Year    int         `json:"year"`
	Label   string      `json:"label"`
	Seasons []Bucket[T] `json:"seasons"`
}

// GroupOptions controls Group.
type GroupOptions struct {
	// Backfill emits every season from 1970 through the year after Now, even
	// when it has no items.
	Backfill bool
	Now      time.Time
}

// Group buckets items into years (descending) and seasons (秋, 夏, 春, 冬).
// Items whose season name does not parse go to a trailing Unclassified group.
func Group[T any](items []T, seasonOf func(T) string, opts GroupOptions) []YearGroup[T] {
	byYear := make(map[int]map[Kind][]T)
	var unclassified []T

	for _, it := range items {
		s, ok := Parse(seasonOf(it))
		if !ok {
			unclassified = append(unclassified, it)
			continue
		}
		kinds, exists := byYear[s.Year]
		if !exists {
			kinds = make(map[Kind][]T)
			byYear[s.Year] = kinds
		}
		kinds[s.Kind] = append(kinds[s.Kind], it)
	}

	if opts.Backfill {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		for y := firstYear; y <= now.In(JST).Year()+1; y++ {
			if _, exists := byYear[y]; !exists {
				byYear[y] = make(map[Kind][]T)
			}
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	out := make([]YearGroup[T], 0, len(years)+1)
	for _, y := range years {
		group := YearGroup[T]{Year: y, Label: strconv.Itoa(y)}
		for k := Fall; k >= Winter; k-- {
			list, exists := byYear[y][k]
			if !exists && !opts.Backfill {
				continue
			}
			if list == nil {
				list = []T{}
			}
			group.Seasons = append(group.Seasons, Bucket[T]{
				Name:  Season{Year: y, Kind: k}.Name(),
				Items: list,
			})
		}
		out = append(out, group)
	}

	if len(unclassified) > 0 {
		out = append(out, YearGroup[T]{
			Label:   Unclassified,
			Seasons: []Bucket[T]{{Name: Unclassified, Items: unclassified}},
		})
	}
	return out
}
