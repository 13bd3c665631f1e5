// Package orders owns the persisted order list: creation at checkout,
// status management by the admin, receipts.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"unishop/internal/auth"
	"unishop/internal/cart"
	"unishop/internal/storage"
)

const ordersKey = "orders"

// The four order statuses. Transitions are free: the admin may move an
// order to any status at any time.
const (
	StatusPendiente  = "pendiente"
	StatusPreparando = "preparando"
	StatusEnviado    = "enviado"
	StatusEntregado  = "entregado"
)

var (
	// ErrNotFound is returned for unknown order ids.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned for statuses outside the four named
	// values.
	ErrInvalidStatus = errors.New("invalid order status")
)

// ValidStatus reports whether s is one of the four named statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendiente, StatusPreparando, StatusEnviado, StatusEntregado:
		return true
	}
	return false
}

// Payment describes the simulated payment attached to an order.
type Payment struct {
	Method    string `json:"method"`
	Label     string `json:"label"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Order is immutable after creation except for Status.
type Order struct {
	ID           string          `json:"id"`
	Token        string          `json:"token"`
	Date         time.Time       `json:"date"`
	Items        []cart.LineItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
	Discount     float64         `json:"discount"`
	ShippingCost float64         `json:"shippingCost"`
	Total        float64         `json:"total"`
	Coupon       string          `json:"coupon,omitempty"`
	UserEmail    string          `json:"userEmail"`
	Shipping     auth.Address    `json:"shipping"`
	Status       string          `json:"status"`
	Payment      Payment         `json:"payment"`
}

// Store persists orders in the storage collaborator. Appends are
// serialized by a single mutex: the token-uniqueness check and the write
// happen under the same critical section (single-writer assumption).
type Store struct {
	kv storage.Store
	mu sync.Mutex
}

// NewStore creates an order store.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) load(ctx context.Context) []Order {
	var orders []Order
	storage.ReadJSON(ctx, s.kv, ordersKey, &orders)
	return orders
}

func (s *Store) save(ctx context.Context, orders []Order) error {
	return storage.WriteJSON(ctx, s.kv, ordersKey, orders)
}

// List returns every stored order, oldest first.
func (s *Store) List(ctx context.Context) []Order {
	return s.load(ctx)
}

// ListByUser returns the orders belonging to one user email.
func (s *Store) ListByUser(ctx context.Context, email string) []Order {
	out := []Order{}
	for _, o := range s.load(ctx) {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	return out
}

// Get returns an order by id.
func (s *Store) Get(ctx context.Context, id string) (*Order, error) {
	for _, o := range s.load(ctx) {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// Tokens returns the set of every stored order token.
func (s *Store) Tokens(ctx context.Context) map[string]struct{} {
	out := map[string]struct{}{}
	for _, o := range s.load(ctx) {
		if o.Token != "" {
			out[o.Token] = struct{}{}
		}
	}
	return out
}

// Append stores a new order. Token and id uniqueness are re-checked under
// the store lock; the caller retries with fresh values on collision.
func (s *Store) Append(ctx context.Context, order Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.load(ctx)
	for _, existing := range orders {
		if existing.Token == order.Token {
			return fmt.Errorf("order token %q already used", order.Token)
		}
		if existing.ID == order.ID {
			return fmt.Errorf("order id %q already used", order.ID)
		}
	}
	orders = append(orders, order)
	return s.save(ctx, orders)
}

// UpdateStatus moves an order to one of the four named statuses.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.load(ctx)
	for i, o := range orders {
		if o.ID != id {
			continue
		}
		orders[i].Status = status
		if err := s.save(ctx, orders); err != nil {
			return nil, err
		}
		return &orders[i], nil
	}
	return nil, ErrNotFound
}
