package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against TEST_REDIS_URL, skipped without it.
func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	s, err := NewRedisStore(url, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	prefix := "animelog-test:" + uuid.NewString() + ":"
	t.Cleanup(func() { _ = DeletePrefix(ctx, s, prefix) })

	_, err = s.Get(ctx, prefix+"missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, prefix+"a", []byte("1")))
	require.NoError(t, s.Set(ctx, prefix+"b", []byte("2")))
	got, err := s.Get(ctx, prefix+"a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	keys, err := s.Keys(ctx, prefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{prefix + "a", prefix + "b"}, keys)

	require.NoError(t, DeletePrefix(ctx, s, prefix))
	keys, err = s.Keys(ctx, prefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
