package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"unishop/internal/auth"
	"unishop/internal/logger"
)

// Handler serves the checkout endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a checkout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type quoteResponse struct {
	Totals       Totals          `json:"totals"`
	Coupon       *Coupon         `json:"coupon,omitempty"`
	CouponStatus string          `json:"couponStatus,omitempty"`
	Shipping     ShippingPolicy  `json:"shippingPolicy"`
	PaymentOpts  []PaymentOption `json:"paymentOptions"`
}

// Quote handles POST /api/checkout/quote: the price breakdown for the
// current cart plus coupon feedback.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coupon string `json:"coupon"`
	}
	if r.Body != nil {
		// An empty body quotes without a coupon.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	scope := auth.Identity(r)
	totals, coupon, err := h.service.Quote(r.Context(), scope, req.Coupon)

	resp := quoteResponse{
		Totals:      totals,
		Coupon:      coupon,
		Shipping:    h.service.Policy(),
		PaymentOpts: PaymentOptions,
	}
	switch {
	case errors.Is(err, ErrInvalidCoupon):
		// Invalid code: quote without a discount, but tell the caller.
		totals, _, _ = h.service.Quote(r.Context(), scope, "")
		resp.Totals = totals
		resp.CouponStatus = "Codigo invalido o no disponible."
	case coupon != nil:
		resp.CouponStatus = "Cupon " + coupon.Code + " aplicado: " + coupon.Label + "."
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Submit handles POST /api/checkout.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.Submit(r.Context(), auth.Identity(r), req)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyCart):
		http.Error(w, "tu carrito esta vacio", http.StatusConflict)
		return
	case errors.Is(err, ErrInvalidCoupon):
		http.Error(w, "codigo de cupon invalido", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidPayment):
		http.Error(w, "metodo de pago no valido", http.StatusBadRequest)
		return
	case errors.Is(err, ErrSubmissionInFlight):
		http.Error(w, "ya hay un pago en proceso", http.StatusConflict)
		return
	case errors.Is(err, ErrIncompleteShipping):
		http.Error(w, "completa todos los datos de envio", http.StatusBadRequest)
		return
	default:
		logger.Errorf("Submit: %v", err)
		http.Error(w, "no se pudo guardar el pedido", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}
