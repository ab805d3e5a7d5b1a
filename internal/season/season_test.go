package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "2025年冬"},
		{time.March, "2025年冬"},
		{time.April, "2025年春"},
		{time.June, "2025年春"},
		{time.July, "2025年夏"},
		{time.September, "2025年夏"},
		{time.October, "2025年秋"},
		{time.December, "2025年秋"},
	}
	for _, tt := range tests {
		now := time.Date(2025, tt.month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.want, Current(now), tt.month.String())
	}
}

func TestParse(t *testing.T) {
	s, ok := Parse("2024年秋")
	require.True(t, ok)
	assert.Equal(t, Season{Year: 2024, Kind: Fall}, s)

	for _, bad := range []string{"", Unclassified, "2024秋", "24年春", "2024年春 ", "2024年初夏"} {
		_, ok := Parse(bad)
		assert.False(t, ok, bad)
	}
}

func TestCurrent_JapaneseCalendar(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"new year in Tokyo, still december in UTC", time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC), "2025年冬"},
		{"last minute of autumn", time.Date(2024, time.December, 31, 14, 59, 0, 0, time.UTC), "2024年秋"},
		{"april in Tokyo", time.Date(2025, time.March, 31, 15, 0, 0, 0, time.UTC), "2025年春"},
		{"already JST", time.Date(2025, time.July, 1, 0, 0, 0, 0, JST), "2025年夏"},
		{"west of UTC", time.Date(2025, time.September, 30, 12, 0, 0, 0, time.FixedZone("PDT", -7*60*60)), "2025年秋"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Current(tt.now))
		})
	}
}

func TestCodes(t *testing.T) {
	s := Season{Year: 2024, Kind: Fall}
	assert.Equal(t, "2024-autumn", s.AnnictCode())
	name, year := s.AniList()
	assert.Equal(t, "FALL", name)
	assert.Equal(t, 2024, year)
}

func TestFromParts(t *testing.T) {
	assert.Equal(t, "2024年春", FromParts(2024, "spring"))
	assert.Equal(t, "2024年秋", FromParts(2024, "FALL"))
	assert.Equal(t, "2024年秋", FromParts(2024, "autumn"))
	assert.Equal(t, "2023年冬", FromParts(2023, "冬"))
	assert.Equal(t, Unclassified, FromParts(0, "spring"))
	assert.Equal(t, Unclassified, FromParts(2024, ""))
	assert.Equal(t, Unclassified, FromParts(2024, "monsoon"))
	assert.Equal(t, "2022年秋", FromParts(2022, "AUTUMN"))

	k, ok := ParseKind(" Summer ")
	assert.True(t, ok)
	assert.Equal(t, Summer, k)
}
