// Package season handles broadcast seasons (クール): naming, parsing and
// grouping anime by year and season.
package season

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is one of the four broadcast quarters.
type Kind int

const (
	Winter Kind = iota // 冬 (Jan-Mar)
	Spring             // 春 (Apr-Jun)
	Summer             // 夏 (Jul-Sep)
	Fall               // 秋 (Oct-Dec)
)

// Unclassified is the bucket name for anime without a parsable season.
const Unclassified = "未分類"

var (
	kindNames     = [...]string{"冬", "春", "夏", "秋"}
	annictNames   = [...]string{"winter", "spring", "summer", "autumn"}
	anilistNames  = [...]string{"WINTER", "SPRING", "SUMMER", "FALL"}
	seasonPattern = regexp.MustCompile(`^(\d{4})年(冬|春|夏|秋)$`)
)

func (k Kind) String() string {
	if k < Winter || k > Fall {
		return "?"
	}
	return kindNames[k]
}

// Season is a year plus a quarter.
type Season struct {
	Year int
	Kind Kind
}

// Name renders the display form, e.g. "2024年秋".
func (s Season) Name() string {
	return fmt.Sprintf("%d年%s", s.Year, s.Kind)
}

func (s Season) String() string { return s.Name() }

// AnnictCode is the form used by Annict's season filter, e.g. "2024-autumn".
func (s Season) AnnictCode() string {
	return fmt.Sprintf("%d-%s", s.Year, annictNames[s.Kind])
}

// AniList returns the season enum and year used by AniList's media filter.
func (s Season) AniList() (string, int) {
	return anilistNames[s.Kind], s.Year
}

// JST is the zone seasons and broadcast times are defined in.
var JST = time.FixedZone("JST", 9*60*60)

// Of returns the season that contains t on the Japanese calendar.
func Of(t time.Time) Season {
	t = t.In(JST)
	return Season{Year: t.Year(), Kind: Kind((int(t.Month()) - 1) / 3)}
}

// Current returns the display name of the season containing now.
func Current(now time.Time) string {
	return Of(now).Name()
}

// Parse reads a display name such as "2024年春". ok is false for anything
// else, including Unclassified.
func Parse(name string) (Season, bool) {
	m := seasonPattern.FindStringSubmatch(name)
	if m == nil {
		return Season{}, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Season{}, false
	}
	for i, n := range kindNames {
		if n == m[2] {
			return Season{Year: year, Kind: Kind(i)}, true
		}
	}
	return Season{}, false
}

// FromParts builds a season name from a year and a kind name ("春", "spring",
// "SPRING", "AUTUMN", "fall"). Returns Unclassified when either part is
// missing or unknown.
func FromParts(year int, kind string) string {
	k, ok := ParseKind(kind)
	if year <= 0 || !ok {
		return Unclassified
	}
	return Season{Year: year, Kind: k}.Name()
}

// ParseKind accepts the Japanese, Annict and AniList names of a quarter in
// any letter case.
func ParseKind(kind string) (Kind, bool) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return 0, false
	}
	for i := range kindNames {
		if kind == kindNames[i] || kind == annictNames[i] || kind == strings.ToLower(anilistNames[i]) {
			return Kind(i), true
		}
	}
	return 0, false
}
