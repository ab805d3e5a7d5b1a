package service

import (
	"path/filepath"
	"testing"
	"time"

	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC) // 2025年春

func newTestKV(t *testing.T) kvstore.Store {
	t.Helper()
	kv, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newLocalStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	return storage.NewLocalStore(newTestKV(t), "test-device")
}

func newTestAnimeService() *animeService {
	return &animeService{logger: zap.NewNop(), now: func() time.Time { return fixedNow }}
}

func newTestWatchlistService() *watchlistService {
	return &watchlistService{logger: zap.NewNop(), now: func() time.Time { return fixedNow }}
}

func intPtr(v int) *int { return &v }
