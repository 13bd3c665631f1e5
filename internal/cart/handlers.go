package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"unishop/internal/auth"
	"unishop/internal/catalog"
	"unishop/internal/logger"
)

// Handler serves the cart endpoints. The identity scope comes from the
// session token when present, guest otherwise.
type Handler struct {
	carts   *Manager
	catalog *catalog.Store
}

// NewHandler creates a cart handler.
func NewHandler(carts *Manager, cat *catalog.Store) *Handler {
	return &Handler{carts: carts, catalog: cat}
}

type cartResponse struct {
	Items []LineItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

func writeCart(w http.ResponseWriter, items []LineItem) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cartResponse{Items: items, Count: Count(items), Total: Total(items)})
}

// Get handles GET /api/cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	writeCart(w, h.carts.Items(r.Context(), auth.Identity(r)))
}

// AddItem handles POST /api/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("AddItem: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	items, err := h.carts.Add(r.Context(), auth.Identity(r), *product)
	if errors.Is(err, ErrOutOfStock) {
		http.Error(w, "product out of stock", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Errorf("AddItem: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, items)
}

// UpdateItem handles PUT /api/cart/items/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req struct {
		Cantidad int `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items, err := h.carts.SetQuantity(r.Context(), auth.Identity(r), id, req.Cantidad)
	if err != nil {
		logger.Errorf("UpdateItem: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, items)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	items, err := h.carts.Remove(r.Context(), auth.Identity(r), id)
	if err != nil {
		logger.Errorf("RemoveItem: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, items)
}

// Clear handles DELETE /api/cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), auth.Identity(r)); err != nil {
		logger.Errorf("Clear: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, []LineItem{})
}
