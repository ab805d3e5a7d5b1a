// Package kvstore is the key-value tier used for anonymous users' data and for
// per-user preference blobs. Values are opaque bytes, usually JSON.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	// Keys lists keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// GetJSON decodes the value at key into dst. found is false when the key is
// missing, in which case dst is untouched.
func GetJSON(ctx context.Context, s Store, key string, dst any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// DeletePrefix removes every key under prefix.
func DeletePrefix(ctx context.Context, s Store, prefix string) error {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Delete(ctx, keys...)
}

// Open returns the store for driver ("redis" or "sqlite").
func Open(driver, redisURL, redisPassword, sqlitePath string) (Store, error) {
	switch driver {
	case "redis":
		return NewRedisStore(redisURL, redisPassword)
	case "sqlite":
		return OpenSQLite(sqlitePath)
	}
	return nil, fmt.Errorf("unknown kv driver %q", driver)
}
