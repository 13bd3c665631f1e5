package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishop/internal/catalog"
	"unishop/internal/notify"
	"unishop/internal/storage"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string, _ notify.Severity) {
	r.messages = append(r.messages, message)
}

func newTestManager() (*Manager, *recordingNotifier, context.Context) {
	rec := &recordingNotifier{}
	return NewManager(storage.NewMemory(), rec), rec, context.Background()
}

func producto(id int, precio float64, stock int) catalog.Producto {
	return catalog.Producto{ID: id, Nombre: "p", Precio: precio, Stock: stock}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	m, _, ctx := newTestManager()
	p := producto(1, 100, 5)

	_, err := m.Add(ctx, "guest", p)
	require.NoError(t, err)
	items, err := m.Add(ctx, "guest", p)
	require.NoError(t, err)

	require.Len(t, items, 1, "no duplicate line items per product id")
	assert.Equal(t, 2, items[0].Cantidad)
}

func TestAddRejectsOutOfStock(t *testing.T) {
	m, rec, ctx := newTestManager()

	_, err := m.Add(ctx, "guest", producto(1, 100, 0))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, m.Items(ctx, "guest"))
	require.Len(t, rec.messages, 1, "rejection is reported through the notifier")
}

func TestSetQuantityClampsToOne(t *testing.T) {
	m, _, ctx := newTestManager()
	_, err := m.Add(ctx, "guest", producto(1, 100, 5))
	require.NoError(t, err)

	items, err := m.SetQuantity(ctx, "guest", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Cantidad)

	items, err = m.SetQuantity(ctx, "guest", 1, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Cantidad)

	items, err = m.SetQuantity(ctx, "guest", 1, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, items[0].Cantidad, "no upper bound before checkout")
}

func TestSetQuantityUnknownIDIsNoop(t *testing.T) {
	m, _, ctx := newTestManager()
	items, err := m.SetQuantity(ctx, "guest", 42, 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveAbsentIsNotAnError(t *testing.T) {
	m, _, ctx := newTestManager()
	items, err := m.Remove(ctx, "guest", 42)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTotalConsistency(t *testing.T) {
	m, _, ctx := newTestManager()

	_, err := m.Add(ctx, "guest", producto(1, 100, 5))
	require.NoError(t, err)
	_, err = m.Add(ctx, "guest", producto(2, 50, 5))
	require.NoError(t, err)
	_, err = m.SetQuantity(ctx, "guest", 1, 3)
	require.NoError(t, err)
	_, err = m.Remove(ctx, "guest", 2)
	require.NoError(t, err)
	items, err := m.Add(ctx, "guest", producto(3, 20, 5))
	require.NoError(t, err)

	want := 0.0
	for _, item := range items {
		want += item.Precio * float64(item.Cantidad)
	}
	assert.Equal(t, want, Total(items))
	assert.Equal(t, 320.0, Total(items))
	assert.Equal(t, 4, Count(items))
}

func TestClearEmptiesCollection(t *testing.T) {
	m, _, ctx := newTestManager()
	_, err := m.Add(ctx, "guest", producto(1, 100, 5))
	require.NoError(t, err)

	require.NoError(t, m.Clear(ctx, "guest"))
	assert.Empty(t, m.Items(ctx, "guest"))
}

func TestScopesAreIndependent(t *testing.T) {
	m, _, ctx := newTestManager()

	_, err := m.Add(ctx, "", producto(1, 100, 5))
	require.NoError(t, err)
	_, err = m.Add(ctx, "ana@example.com", producto(2, 50, 5))
	require.NoError(t, err)

	guest := m.Items(ctx, "")
	ana := m.Items(ctx, "ana@example.com")
	require.Len(t, guest, 1)
	require.Len(t, ana, 1)
	assert.Equal(t, 1, guest[0].ID)
	assert.Equal(t, 2, ana[0].ID, "identity switch swaps collections, never merges")
}

func TestCountAndTotalOfEmptyCart(t *testing.T) {
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 0.0, Total(nil))
}
