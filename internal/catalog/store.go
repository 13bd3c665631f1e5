package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"unishop/internal/logger"
	"unishop/internal/storage"
)

const (
	productsKey   = "products"
	stockLogKey   = "stock-log"
	filtersPrefix = "product-filters"
)

// ErrNotFound is returned when a product id has no catalog entry.
var ErrNotFound = errors.New("product not found")

// StockEntry is one line of the stock-change audit log.
type StockEntry struct {
	ID        string    `json:"id"`
	ProductID int       `json:"productId"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	Date      time.Time `json:"date"`
}

// Store keeps the product collection in the storage collaborator. Reads
// fall back to the seed catalog when storage holds nothing; every mutation
// rewrites the whole collection, mirroring the single-document ownership
// of the catalog.
type Store struct {
	kv storage.Store
	mu sync.Mutex
}

// NewStore creates a catalog store over the given backend.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) load(ctx context.Context) []Producto {
	var stored []Producto
	if storage.ReadJSON(ctx, s.kv, productsKey, &stored) {
		out := make([]Producto, 0, len(stored))
		for _, p := range stored {
			out = append(out, Normalize(p))
		}
		return out
	}
	return SeedProducts()
}

func (s *Store) save(ctx context.Context, products []Producto) error {
	return storage.WriteJSON(ctx, s.kv, productsKey, products)
}

// List returns the full catalog in stored order.
func (s *Store) List(ctx context.Context) []Producto {
	return s.load(ctx)
}

// Get returns the product with the given id.
func (s *Store) Get(ctx context.Context, id int) (*Producto, error) {
	for _, p := range s.load(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Add appends a new product. A missing id is assigned max(id)+1; the
// payload passes through Normalize before it is stored.
func (s *Store) Add(ctx context.Context, p Producto) (*Producto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.load(ctx)
	if p.ID <= 0 {
		maxID := 0
		for _, item := range products {
			if item.ID > maxID {
				maxID = item.ID
			}
		}
		p.ID = maxID + 1
	} else {
		for _, item := range products {
			if item.ID == p.ID {
				return nil, fmt.Errorf("product %d already exists", p.ID)
			}
		}
	}

	normalized := Normalize(p)
	products = append(products, normalized)
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	return &normalized, nil
}

// Update replaces the mutable fields of an existing product. The id is
// never changed by an update.
func (s *Store) Update(ctx context.Context, id int, p Producto) (*Producto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.load(ctx)
	for i, item := range products {
		if item.ID != id {
			continue
		}
		p.ID = id
		normalized := Normalize(p)
		products[i] = normalized
		if err := s.save(ctx, products); err != nil {
			return nil, err
		}
		return &normalized, nil
	}
	return nil, ErrNotFound
}

// Remove deletes a product by id.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.load(ctx)
	for i, item := range products {
		if item.ID != id {
			continue
		}
		products = append(products[:i], products[i+1:]...)
		return s.save(ctx, products)
	}
	return ErrNotFound
}

// SetStock replaces a product's stock level. Negative values clamp to 0.
// The change lands in the audit log with the given actor.
func (s *Store) SetStock(ctx context.Context, id, stock int, actor string) (*Producto, error) {
	if stock < 0 {
		stock = 0
	}
	return s.adjustStock(ctx, id, func(int) int { return stock }, actor, "ajuste manual")
}

// DecrementStock lowers a product's stock after a sale, flooring at 0.
// Quantities below 1 are a no-op.
func (s *Store) DecrementStock(ctx context.Context, id, qty int, actor string) (*Producto, error) {
	if qty < 1 {
		p, err := s.Get(ctx, id)
		return p, err
	}
	return s.adjustStock(ctx, id, func(cur int) int {
		next := cur - qty
		if next < 0 {
			return 0
		}
		return next
	}, actor, "venta")
}

func (s *Store) adjustStock(ctx context.Context, id int, next func(int) int, actor, reason string) (*Producto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.load(ctx)
	for i, item := range products {
		if item.ID != id {
			continue
		}
		from := item.Stock
		item.Stock = next(from)
		products[i] = item
		if err := s.save(ctx, products); err != nil {
			return nil, err
		}
		s.appendStockLog(ctx, StockEntry{
			ID:        uuid.New().String(),
			ProductID: id,
			From:      from,
			To:        item.Stock,
			Reason:    reason,
			Actor:     actor,
			Date:      time.Now().UTC(),
		})
		return &item, nil
	}
	return nil, ErrNotFound
}

func (s *Store) appendStockLog(ctx context.Context, entry StockEntry) {
	var log []StockEntry
	storage.ReadJSON(ctx, s.kv, stockLogKey, &log)
	log = append(log, entry)
	if err := storage.WriteJSON(ctx, s.kv, stockLogKey, log); err != nil {
		// The audit trail is advisory; stock itself is already saved.
		logger.Warnf("stock log: %v", err)
	}
}

// StockLog returns the audit trail, oldest first.
func (s *Store) StockLog(ctx context.Context) []StockEntry {
	var log []StockEntry
	storage.ReadJSON(ctx, s.kv, stockLogKey, &log)
	return log
}

// SaveFilters persists the filter spec for one session scope.
func (s *Store) SaveFilters(ctx context.Context, scope string, spec FilterSpec) error {
	spec.Tags = NormalizeTags(spec.Tags)
	return storage.WriteJSON(ctx, s.kv, storage.ScopedKey(filtersPrefix, scope), spec)
}

// LoadFilters returns the persisted spec for the scope, or the defaults.
func (s *Store) LoadFilters(ctx context.Context, scope string) FilterSpec {
	spec := DefaultFilterSpec()
	if storage.ReadJSON(ctx, s.kv, storage.ScopedKey(filtersPrefix, scope), &spec) {
		spec.Tags = NormalizeTags(spec.Tags)
	}
	return spec
}
