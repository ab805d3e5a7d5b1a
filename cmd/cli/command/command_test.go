package command

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, db string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db, "--device", "cli-test-device"}, args...))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCLI_LogRateAndDNA(t *testing.T) {
	db := filepath.Join(t.TempDir(), "animelog.db")

	out := run(t, db, "add", "葬送のフリーレン", "--season", "2023年秋", "--tag", "ファンタジー")
	assert.Contains(t, out, "2023年秋")
	id := regexp.MustCompile(`ID: ([0-9a-f-]{36})`).FindStringSubmatch(out)
	require.Len(t, id, 2)

	out = run(t, db, "rate", id[1], "5")
	assert.Contains(t, out, "★★★★★")

	out = run(t, db, "seasons")
	assert.Contains(t, out, "2023年秋 (1)")

	out = run(t, db, "dna", "--format", "markdown")
	assert.Contains(t, out, "アニメDNAカード")
}

func TestCLI_Watchlist(t *testing.T) {
	db := filepath.Join(t.TempDir(), "animelog.db")

	out := run(t, db, "watchlist", "add", "154587", "葬送のフリーレン", "--target-season", "秋", "--target-year", "2023")
	id := regexp.MustCompile(`ID: ([0-9a-f-]{36})`).FindStringSubmatch(out)
	require.Len(t, id, 2)

	out = run(t, db, "watchlist", "add", "154587", "葬送のフリーレン")
	assert.Contains(t, out, "already on your watchlist")

	out = run(t, db, "watchlist", "list")
	assert.Contains(t, out, "Watchlist (1)")

	out = run(t, db, "watchlist", "watched", id[1])
	assert.Contains(t, out, "✅")

	out = run(t, db, "watchlist", "list")
	assert.Contains(t, out, "empty")
}
