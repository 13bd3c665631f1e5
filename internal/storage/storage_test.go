package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "k", []byte(`{"a":1}`)))
	raw, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), raw)

	require.NoError(t, m.Set(ctx, "k", []byte(`{"a":2}`)))
	raw, _, _ = m.Get(ctx, "k")
	assert.Equal(t, []byte(`{"a":2}`), raw)

	require.NoError(t, m.Delete(ctx, "k"))
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting again is not an error
	require.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'X'

	out, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), out)

	out[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("original"), again)
}

func TestScopedKey(t *testing.T) {
	assert.Equal(t, "cart-guest", ScopedKey("cart", ""))
	assert.Equal(t, "cart-ana@example.com", ScopedKey("cart", "ana@example.com"))
	assert.Equal(t, "wishlist-guest", ScopedKey("wishlist", ""))
}

func TestReadJSON(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var got map[string]int
	assert.False(t, ReadJSON(ctx, m, "missing", &got))
	assert.Nil(t, got)

	require.NoError(t, WriteJSON(ctx, m, "k", map[string]int{"a": 1}))
	assert.True(t, ReadJSON(ctx, m, "k", &got))
	assert.Equal(t, map[string]int{"a": 1}, got)
}

func TestReadJSONDegradesOnMalformedValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("{not json")))

	got := map[string]int{"keep": 7}
	assert.False(t, ReadJSON(ctx, m, "k", &got))
	assert.Equal(t, map[string]int{"keep": 7}, got, "target is left untouched")
}
