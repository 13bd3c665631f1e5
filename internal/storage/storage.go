// Package storage is the persistence collaborator: a key-value store of
// JSON blobs, scoped per identity where the key demands it. Read failures
// degrade to "absent" so callers always recover a usable default.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"unishop/internal/logger"
)

// Store is the minimal contract the rest of the service depends on.
type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the raw value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
}

// ScopedKey builds an identity-scoped key ("cart-guest", "cart-ana@x.com").
func ScopedKey(prefix, identity string) string {
	if identity == "" {
		identity = "guest"
	}
	return prefix + "-" + identity
}

// ReadJSON unmarshals the value at key into v. A missing key, a read error
// or malformed JSON all report false and leave v untouched, so the caller
// falls back to its zero/default value.
func ReadJSON(ctx context.Context, s Store, key string, v interface{}) bool {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		logger.Warnf("storage: read %q failed: %v", key, err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		logger.Warnf("storage: decode %q failed: %v", key, err)
		return false
	}
	return true
}

// WriteJSON marshals v and stores it at key.
func WriteJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
