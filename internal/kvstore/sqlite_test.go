package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv", "animelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "a", []byte("2")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx))
}

func TestSQLiteStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, k := range []string{"animelog:dev1:animes", "animelog:dev1:watchlist", "animelog:dev2:animes", "animelog:dev1_x:animes"} {
		require.NoError(t, s.Set(ctx, k, []byte("[]")))
	}

	keys, err := s.Keys(ctx, "animelog:dev1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"animelog:dev1:animes", "animelog:dev1:watchlist"}, keys)

	// underscore is a LIKE wildcard, it must not match here
	keys, err = s.Keys(ctx, "animelog:dev1_")
	require.NoError(t, err)
	assert.Equal(t, []string{"animelog:dev1_x:animes"}, keys)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	type prefs struct {
		DarkMode bool `json:"dark_mode"`
	}

	var p prefs
	found, err := GetJSON(ctx, s, "prefs", &p)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, s, "prefs", prefs{DarkMode: true}))
	found, err = GetJSON(ctx, s, "prefs", &p)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, p.DarkMode)

	require.NoError(t, s.Set(ctx, "broken", []byte("{")))
	_, err = GetJSON(ctx, s, "broken", &p)
	assert.Error(t, err)
}

func TestDeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, "animelog:u1:a", []byte("1")))
	require.NoError(t, s.Set(ctx, "animelog:u1:b", []byte("1")))
	require.NoError(t, s.Set(ctx, "animelog:u2:a", []byte("1")))

	require.NoError(t, DeletePrefix(ctx, s, "animelog:u1:"))

	keys, err := s.Keys(ctx, "animelog:")
	require.NoError(t, err)
	assert.Equal(t, []string{"animelog:u2:a"}, keys)

	assert.NoError(t, DeletePrefix(ctx, s, "nothing:"))
}

func TestOpen(t *testing.T) {
	s, err := Open("sqlite", "", "", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = Open("memcached", "", "", "")
	assert.Error(t, err)
}
