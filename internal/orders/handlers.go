package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"unishop/internal/auth"
	"unishop/internal/logger"
)

// Handler serves order listing, admin status management and receipts.
type Handler struct {
	store *Store
}

// NewHandler creates an order handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ListMine handles GET /api/orders for the authenticated user.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	mine := h.store.ListByUser(r.Context(), claims.Email)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mine)
}

// ListAll handles GET /api/admin/orders.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.List(r.Context()))
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.store.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, ErrInvalidStatus) {
		http.Error(w, "status must be one of pendiente, preparando, enviado, entregado", http.StatusBadRequest)
		return
	}
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("UpdateStatus: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	logger.Infof("order %s moved to %s by %s", id, req.Status, claims.Email)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// Receipt handles GET /api/orders/{id}/receipt. Owners and admins only.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id := mux.Vars(r)["id"]

	order, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("Receipt: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if order.UserEmail != claims.Email && !auth.HasRole(claims.Roles, auth.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-recibo.pdf", order.ID))
	if err := WriteReceipt(w, order); err != nil {
		logger.Errorf("Receipt: %v", err)
	}
}
