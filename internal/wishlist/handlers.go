package wishlist

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"unishop/internal/auth"
	"unishop/internal/logger"
)

// Handler serves the wishlist endpoints. All of them require a session.
type Handler struct {
	manager *Manager
}

// NewHandler creates a wishlist handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// List handles GET /api/wishlist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	items, err := h.manager.List(r.Context(), claims.Email)
	if err != nil {
		logger.Errorf("wishlist List: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// Toggle handles POST /api/wishlist/{productID}.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, err := strconv.Atoi(mux.Vars(r)["productID"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	status, err := h.manager.Toggle(r.Context(), claims.Email, id)
	if err != nil {
		logger.Errorf("wishlist Toggle: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": string(status)})
}

// Remove handles DELETE /api/wishlist/{productID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, err := strconv.Atoi(mux.Vars(r)["productID"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.manager.Remove(r.Context(), claims.Email, id); err != nil {
		logger.Errorf("wishlist Remove: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/wishlist.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if err := h.manager.Clear(r.Context(), claims.Email); err != nil {
		logger.Errorf("wishlist Clear: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
