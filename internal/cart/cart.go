// Package cart maintains the per-identity line-item collection. Each
// identity (guest or authenticated email) owns its own persisted cart;
// switching identity swaps collections, nothing is merged.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"unishop/internal/catalog"
	"unishop/internal/notify"
	"unishop/internal/storage"
)

const cartPrefix = "cart"

// ErrOutOfStock is returned when adding a product with no stock left.
var ErrOutOfStock = errors.New("product out of stock")

// LineItem is a product snapshot plus the quantity in the cart. There is
// at most one line item per product id.
type LineItem struct {
	catalog.Producto
	Cantidad int `json:"cantidad"`
}

// Count sums cantidad over the collection.
func Count(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Cantidad
	}
	return total
}

// Total sums precio*cantidad over the collection, in base currency.
func Total(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Precio * float64(item.Cantidad)
	}
	return total
}

// Manager operates on the currently scoped collection. All mutations load,
// transform and rewrite the scoped collection atomically under one lock.
type Manager struct {
	kv       storage.Store
	notifier notify.Notifier
	mu       sync.Mutex
}

// NewManager creates a cart manager.
func NewManager(kv storage.Store, notifier notify.Notifier) *Manager {
	return &Manager{kv: kv, notifier: notifier}
}

func (m *Manager) key(scope string) string {
	return storage.ScopedKey(cartPrefix, scope)
}

// Items returns the scoped collection. Unreadable state degrades to an
// empty cart.
func (m *Manager) Items(ctx context.Context, scope string) []LineItem {
	var items []LineItem
	storage.ReadJSON(ctx, m.kv, m.key(scope), &items)
	return items
}

func (m *Manager) save(ctx context.Context, scope string, items []LineItem) error {
	return storage.WriteJSON(ctx, m.kv, m.key(scope), items)
}

// Add puts one unit of the product in the scoped cart. Products without
// stock are rejected; a product already present has its cantidad
// incremented instead of gaining a second line.
func (m *Manager) Add(ctx context.Context, scope string, p catalog.Producto) ([]LineItem, error) {
	if p.Stock <= 0 {
		m.notifier.Notify(fmt.Sprintf("%q no tiene stock disponible.", p.Nombre), notify.SeverityWarning)
		return nil, ErrOutOfStock
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Items(ctx, scope)
	for i, item := range items {
		if item.ID == p.ID {
			items[i].Cantidad++
			if err := m.save(ctx, scope, items); err != nil {
				return nil, err
			}
			m.notifier.Notify(fmt.Sprintf("Cantidad de %q actualizada en el carrito.", p.Nombre), notify.SeverityInfo)
			return items, nil
		}
	}

	items = append(items, LineItem{Producto: p, Cantidad: 1})
	if err := m.save(ctx, scope, items); err != nil {
		return nil, err
	}
	m.notifier.Notify(fmt.Sprintf("%q agregado al carrito.", p.Nombre), notify.SeveritySuccess)
	return items, nil
}

// SetQuantity sets the cantidad of a line item, clamped to a minimum of 1.
// No stock ceiling is enforced here; overselling is resolved at checkout.
// Unknown ids are a no-op.
func (m *Manager) SetQuantity(ctx context.Context, scope string, id, qty int) ([]LineItem, error) {
	if qty < 1 {
		qty = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Items(ctx, scope)
	for i, item := range items {
		if item.ID == id {
			items[i].Cantidad = qty
			if err := m.save(ctx, scope, items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
	return items, nil
}

// Remove deletes the line item with the given id. Absent ids are not an
// error.
func (m *Manager) Remove(ctx context.Context, scope string, id int) ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Items(ctx, scope)
	for i, item := range items {
		if item.ID == id {
			m.notifier.Notify(fmt.Sprintf("%q eliminado del carrito.", item.Nombre), notify.SeverityInfo)
			items = append(items[:i], items[i+1:]...)
			if err := m.save(ctx, scope, items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
	return items, nil
}

// Clear empties the scoped collection; called after a successful order.
func (m *Manager) Clear(ctx context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Items(ctx, scope)) > 0 {
		m.notifier.Notify("Carrito vaciado", notify.SeverityInfo)
	}
	return m.save(ctx, scope, []LineItem{})
}
