package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishop/internal/catalog"
	"unishop/internal/storage"
)

func newManager() (*Manager, *catalog.Store, context.Context) {
	kv := storage.NewMemory()
	cat := catalog.NewStore(kv)
	return NewManager(kv, cat), cat, context.Background()
}

func TestGuestsHaveNoWishlist(t *testing.T) {
	m, _, ctx := newManager()

	_, err := m.List(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = m.Toggle(ctx, "", 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, m.Remove(ctx, "", 1), ErrUnauthenticated)
	assert.ErrorIs(t, m.Clear(ctx, ""), ErrUnauthenticated)
}

func TestToggleAddsAndRemoves(t *testing.T) {
	m, _, ctx := newManager()
	email := "ana@example.com"

	status, err := m.Toggle(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, status)

	list, err := m.List(ctx, email)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].ID)

	status, err = m.Toggle(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusRemoved, status)

	list, err = m.List(ctx, email)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListDropsRemovedProducts(t *testing.T) {
	m, cat, ctx := newManager()
	email := "ana@example.com"

	_, err := m.Toggle(ctx, email, 1)
	require.NoError(t, err)
	_, err = m.Toggle(ctx, email, 2)
	require.NoError(t, err)

	require.NoError(t, cat.Remove(ctx, 1))

	list, err := m.List(ctx, email)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)
}

func TestRemoveIsIdempotent(t *testing.T) {
	m, _, ctx := newManager()
	email := "ana@example.com"

	_, err := m.Toggle(ctx, email, 5)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, email, 5))
	require.NoError(t, m.Remove(ctx, email, 5))
	require.NoError(t, m.Remove(ctx, email, 99))

	list, err := m.List(ctx, email)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClear(t *testing.T) {
	m, _, ctx := newManager()
	email := "ana@example.com"

	for _, id := range []int{1, 2, 3} {
		_, err := m.Toggle(ctx, email, id)
		require.NoError(t, err)
	}
	require.NoError(t, m.Clear(ctx, email))

	list, err := m.List(ctx, email)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWishlistsAreScopedPerUser(t *testing.T) {
	m, _, ctx := newManager()

	_, err := m.Toggle(ctx, "ana@example.com", 1)
	require.NoError(t, err)

	list, err := m.List(ctx, "otro@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}
