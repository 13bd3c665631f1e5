package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishop/internal/storage"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	return NewStore(storage.NewMemory()), context.Background()
}

func TestStoreFallsBackToSeed(t *testing.T) {
	s, ctx := newTestStore(t)
	assert.Len(t, s.List(ctx), 8)
}

func TestStoreAddAssignsNextID(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.Add(ctx, Producto{Nombre: "Webcam", Precio: 180, Stock: 20})
	require.NoError(t, err)
	assert.Equal(t, 9, p.ID, "seed tops out at id 8")

	_, err = s.Add(ctx, Producto{ID: 9, Nombre: "dup"})
	assert.Error(t, err)
}

func TestStoreUpdateKeepsID(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.Update(ctx, 2, Producto{ID: 777, Nombre: "Auriculares Pro", Precio: 300, Stock: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "Auriculares Pro", p.Nombre)

	_, err = s.Update(ctx, 999, Producto{Nombre: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRemove(t *testing.T) {
	s, ctx := newTestStore(t)

	require.NoError(t, s.Remove(ctx, 1))
	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, 1), ErrNotFound)
}

func TestStoreSetStockClampsAndAudits(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.SetStock(ctx, 1, -5, "admin@unishop.com")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	log := s.StockLog(ctx)
	require.Len(t, log, 1)
	assert.Equal(t, 1, log[0].ProductID)
	assert.Equal(t, 5, log[0].From)
	assert.Equal(t, 0, log[0].To)
	assert.Equal(t, "ajuste manual", log[0].Reason)
	assert.Equal(t, "admin@unishop.com", log[0].Actor)
	assert.NotEmpty(t, log[0].ID)
}

func TestStoreDecrementStockFloorsAtZero(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.DecrementStock(ctx, 1, 3, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	p, err = s.DecrementStock(ctx, 1, 99, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock, "overselling floors at zero")

	log := s.StockLog(ctx)
	require.Len(t, log, 2)
	assert.Equal(t, "venta", log[0].Reason)
}

func TestStoreDecrementStockIgnoresNonPositiveQty(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.DecrementStock(ctx, 1, 0, "x")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	assert.Empty(t, s.StockLog(ctx))
}

func TestStoreFiltersPerScope(t *testing.T) {
	s, ctx := newTestStore(t)

	spec := DefaultFilterSpec()
	spec.Category = "Audio"
	require.NoError(t, s.SaveFilters(ctx, "ana@example.com", spec))

	assert.Equal(t, "Audio", s.LoadFilters(ctx, "ana@example.com").Category)
	assert.Equal(t, DefaultFilterSpec(), s.LoadFilters(ctx, ""), "guest scope unaffected")
}

func TestStoreNormalizesOnWrite(t *testing.T) {
	s, ctx := newTestStore(t)

	p, err := s.Add(ctx, Producto{Nombre: "  X  ", Precio: -1, Stock: -1,
		Etiquetas: []string{"a", "A", ""}})
	require.NoError(t, err)
	assert.Equal(t, "X", p.Nombre)
	assert.Equal(t, 0.0, p.Precio)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, []string{"a"}, p.Etiquetas)
}
