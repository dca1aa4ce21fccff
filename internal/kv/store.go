// Package kv is the only path to durable state. Every record family lives
// as one JSON document under a fixed logical key, and every write replaces
// the whole document.
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Logical keys.
const (
	KeyUsers          = "users"
	KeyMesses         = "messes"
	KeyStudents       = "students"
	KeyAttendance     = "attendance"
	KeyCurrentSession = "current_session"
)

// ErrNotFound is returned by backends when a key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a raw byte-level backend. Set must replace the value atomically.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Read decodes the JSON value under key into a T. It never fails: a missing
// key, a backend error, a JSON null or malformed content all yield def.
func Read[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Debug("kv read failed, using default", "key", key, "error", err)
		}
		return def
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Debug("kv value malformed, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Write serializes v and stores it under key, replacing any previous value.
// Nothing is written when serialization fails.
func Write[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func Delete(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key currently holds a value.
func Exists(ctx context.Context, s Store, key string) bool {
	_, err := s.Get(ctx, key)
	return err == nil
}
