package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"unishop/internal/auth"
	"unishop/internal/currency"
	"unishop/internal/logger"
)

// Handler handles HTTP requests for catalog operations.
type Handler struct {
	store *Store
}

// NewHandler creates a new catalog handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type listResponse struct {
	Products   []Producto `json:"products"`
	Total      int        `json:"total"`
	Categories []string   `json:"availableCategories"`
	Tags       []string   `json:"availableTags"`
	Filters    FilterSpec `json:"filters"`
	Currency   string     `json:"currency"`
}

// specFromQuery builds a FilterSpec from list query parameters. The second
// return reports whether any filter parameter was present at all.
func specFromQuery(r *http.Request) (FilterSpec, bool) {
	q := r.URL.Query()
	spec := DefaultFilterSpec()
	touched := false

	if v, ok := q["search"]; ok {
		spec.SearchTerm = v[0]
		touched = true
	}
	if v, ok := q["category"]; ok {
		spec.Category = v[0]
		touched = true
	}
	if v, ok := q["minPrice"]; ok {
		spec.MinPrice = v[0]
		touched = true
	}
	if v, ok := q["maxPrice"]; ok {
		spec.MaxPrice = v[0]
		touched = true
	}
	if v, ok := q["tags"]; ok {
		spec.Tags = SplitTags(v[0])
		touched = true
	}
	if v, ok := q["onlyAvailable"]; ok {
		spec.OnlyAvailable = v[0] == "true" || v[0] == "1"
		touched = true
	}
	return spec, touched
}

// List handles GET /api/products. Filter parameters come from the query
// string; a request without any falls back to the session's persisted
// spec. The effective spec is persisted for the next request. Facets
// always derive from the full catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := auth.Identity(r)

	displayCurrency := r.URL.Query().Get("currency")
	if !currency.Known(displayCurrency) {
		displayCurrency = currency.Base
	}

	spec, touched := specFromQuery(r)
	if !touched {
		spec = h.store.LoadFilters(ctx, scope)
	} else if err := h.store.SaveFilters(ctx, scope, spec); err != nil {
		logger.Warnf("List: save filters: %v", err)
	}

	all := h.store.List(ctx)
	filtered := Filter(all, spec, displayCurrency)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{
		Products:   filtered,
		Total:      len(filtered),
		Categories: Categories(all),
		Tags:       Tags(all),
		Filters:    spec,
		Currency:   displayCurrency,
	})
}

// ResetFilters handles DELETE /api/products/filters: restores the default
// spec exactly.
func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	scope := auth.Identity(r)
	if err := h.store.SaveFilters(r.Context(), scope, DefaultFilterSpec()); err != nil {
		logger.Errorf("ResetFilters: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DefaultFilterSpec())
}

// Get handles GET /api/products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("Get: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// Create handles POST /api/products (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	var req Producto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Nombre == "" {
		http.Error(w, "nombre is required", http.StatusBadRequest)
		return
	}

	product, err := h.store.Add(r.Context(), req)
	if err != nil {
		logger.Errorf("Create: %v", err)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// Update handles PUT /api/products/{id} (admin only).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req Producto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.store.Update(r.Context(), id, req)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("Update: %v", err)
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// Delete handles DELETE /api/products/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	err = h.store.Remove(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("Delete: %v", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetStock handles PUT /api/products/{id}/stock (admin only).
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.store.SetStock(r.Context(), id, req.Stock, claims.Email)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("SetStock: %v", err)
		http.Error(w, "failed to update stock", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// Import handles POST /api/products/import (admin only). The body is the
// raw payload; ?format=csv or json selects the parser.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	products, err := ParseImport(payload, r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportResult{}
	for _, p := range products {
		if _, err := h.store.Add(r.Context(), p); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Imported++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// StockLog handles GET /api/admin/stock-log (admin only).
func (h *Handler) StockLog(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.StockLog(r.Context()))
}
