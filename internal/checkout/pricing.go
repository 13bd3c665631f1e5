// Package checkout computes order totals and runs the simulated payment
// flow that turns a cart into a persisted order.
package checkout

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"unishop/internal/cart"
)

// CouponKind is the discount mechanism a coupon applies.
type CouponKind string

const (
	KindPercent      CouponKind = "percent"
	KindFlat         CouponKind = "flat"
	KindFreeShipping CouponKind = "free-shipping"
)

// Coupon is one entry of the immutable coupon table.
type Coupon struct {
	Code  string     `json:"code"`
	Kind  CouponKind `json:"kind"`
	Value float64    `json:"value,omitempty"`
	Label string     `json:"label"`
}

// ErrInvalidCoupon distinguishes an unknown code from "no coupon entered".
var ErrInvalidCoupon = errors.New("invalid coupon code")

// coupons is static and not user-editable.
var coupons = map[string]Coupon{
	"DESCUENTO10":  {Code: "DESCUENTO10", Kind: KindPercent, Value: 10, Label: "10% de descuento"},
	"ENVIOFREE":    {Code: "ENVIOFREE", Kind: KindFreeShipping, Label: "Envio gratis"},
	"BIENVENIDO20": {Code: "BIENVENIDO20", Kind: KindFlat, Value: 20, Label: "S/20 de descuento"},
}

// ResolveCoupon looks a code up case-insensitively. An empty code means no
// coupon (nil, nil); an unknown code is ErrInvalidCoupon.
func ResolveCoupon(code string) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	coupon, ok := coupons[code]
	if !ok {
		return nil, ErrInvalidCoupon
	}
	return &coupon, nil
}

// ShippingPolicy is the flat-rate-below-threshold shipping rule.
type ShippingPolicy struct {
	// FreeThreshold is the subtotal at which shipping becomes free.
	FreeThreshold float64 `json:"freeThreshold"`
	// Cost is the flat cost applied below the threshold.
	Cost float64 `json:"cost"`
}

// DefaultShippingPolicy matches the storefront: S/25 below S/300.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{FreeThreshold: 300, Cost: 25}
}

// Totals is the checkout price breakdown, in base currency.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shippingCost"`
	Total        float64 `json:"total"`
}

// ComputeTotals derives the breakdown for the given line items and an
// already-resolved coupon (nil for none). The discount is capped at the
// subtotal and the total never goes negative from a discount alone.
// Intermediate values stay unrounded; rounding happens once, at order
// persistence.
func ComputeTotals(items []cart.LineItem, coupon *Coupon, policy ShippingPolicy) Totals {
	subtotal := cart.Total(items)

	discount := 0.0
	if coupon != nil {
		switch coupon.Kind {
		case KindPercent:
			discount = subtotal * coupon.Value / 100
		case KindFlat:
			discount = coupon.Value
		}
	}
	if discount > subtotal {
		discount = subtotal
	}

	shipping := 0.0
	if len(items) > 0 && subtotal < policy.FreeThreshold {
		shipping = policy.Cost
	}
	if coupon != nil && coupon.Kind == KindFreeShipping {
		shipping = 0
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	total += shipping

	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: shipping,
		Total:        total,
	}
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Rounded returns the breakdown with every amount rounded to 2 decimal
// places, the form persisted on the order.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:     round2(t.Subtotal),
		Discount:     round2(t.Discount),
		ShippingCost: round2(t.ShippingCost),
		Total:        round2(t.Total),
	}
}
