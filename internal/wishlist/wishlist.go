// Package wishlist keeps each authenticated user's saved product ids.
// Guests have no wishlist; the collection lives under the user's email.
package wishlist

import (
	"context"
	"errors"
	"sync"

	"unishop/internal/catalog"
	"unishop/internal/storage"
)

const wishlistPrefix = "wishlist"

// ErrUnauthenticated is returned for guest access.
var ErrUnauthenticated = errors.New("wishlist requires an authenticated user")

// ToggleStatus reports what Toggle did.
type ToggleStatus string

const (
	StatusAdded   ToggleStatus = "added"
	StatusRemoved ToggleStatus = "removed"
)

// Manager persists wishlist id sets per user.
type Manager struct {
	kv      storage.Store
	catalog *catalog.Store
	mu      sync.Mutex
}

// NewManager creates a wishlist manager.
func NewManager(kv storage.Store, cat *catalog.Store) *Manager {
	return &Manager{kv: kv, catalog: cat}
}

func (m *Manager) key(email string) string {
	return storage.ScopedKey(wishlistPrefix, email)
}

func (m *Manager) ids(ctx context.Context, email string) []int {
	var ids []int
	storage.ReadJSON(ctx, m.kv, m.key(email), &ids)

	// Dedup defensively; stored state may predate the invariant.
	seen := map[int]struct{}{}
	out := ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// List resolves the wishlist against the catalog; ids of removed products
// are dropped from the view.
func (m *Manager) List(ctx context.Context, email string) ([]catalog.Producto, error) {
	if email == "" {
		return nil, ErrUnauthenticated
	}
	idSet := map[int]struct{}{}
	for _, id := range m.ids(ctx, email) {
		idSet[id] = struct{}{}
	}

	out := []catalog.Producto{}
	for _, p := range m.catalog.List(ctx) {
		if _, ok := idSet[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Toggle adds the id when absent and removes it when present.
func (m *Manager) Toggle(ctx context.Context, email string, id int) (ToggleStatus, error) {
	if email == "" {
		return "", ErrUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.ids(ctx, email)
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			return StatusRemoved, storage.WriteJSON(ctx, m.kv, m.key(email), ids)
		}
	}
	ids = append(ids, id)
	return StatusAdded, storage.WriteJSON(ctx, m.kv, m.key(email), ids)
}

// Remove deletes an id; absent ids are a no-op.
func (m *Manager) Remove(ctx context.Context, email string, id int) error {
	if email == "" {
		return ErrUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.ids(ctx, email)
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			return storage.WriteJSON(ctx, m.kv, m.key(email), ids)
		}
	}
	return nil
}

// Clear empties the user's wishlist.
func (m *Manager) Clear(ctx context.Context, email string) error {
	if email == "" {
		return ErrUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return storage.WriteJSON(ctx, m.kv, m.key(email), []int{})
}
