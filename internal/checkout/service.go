package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"unishop/internal/auth"
	"unishop/internal/cart"
	"unishop/internal/catalog"
	"unishop/internal/currency"
	"unishop/internal/logger"
	"unishop/internal/notify"
	"unishop/internal/orders"
)

// PaymentOption is one of the simulated payment methods.
type PaymentOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// PaymentOptions is the fixed set offered at checkout.
var PaymentOptions = []PaymentOption{
	{ID: "stripe", Label: "Tarjeta (Stripe simulado)",
		Description: "Ingresa los datos de tarjeta en un entorno seguro simulado."},
	{ID: "paypal", Label: "PayPal",
		Description: "Paga con tu cuenta PayPal en un flujo ficticio."},
	{ID: "yape", Label: "Yape",
		Description: "Transferencia inmediata desde tu celular (referencia simulada)."},
}

func paymentOption(id string) *PaymentOption {
	for _, opt := range PaymentOptions {
		if opt.ID == id {
			return &opt
		}
	}
	return nil
}

var (
	// ErrEmptyCart rejects submissions with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidPayment rejects unknown payment method ids.
	ErrInvalidPayment = errors.New("invalid payment method")
	// ErrSubmissionInFlight rejects a second submission while one is
	// already being processed for the same identity.
	ErrSubmissionInFlight = errors.New("checkout already in progress")
	// ErrIncompleteShipping rejects forms with missing required fields.
	ErrIncompleteShipping = errors.New("incomplete shipping data")
)

// SubmitRequest is the checkout form. Every shipping field is required.
type SubmitRequest struct {
	Nombre        string `json:"nombre" validate:"required"`
	Direccion     string `json:"direccion" validate:"required"`
	Ciudad        string `json:"ciudad" validate:"required"`
	Telefono      string `json:"telefono" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	Coupon        string `json:"coupon"`
}

// Service turns a cart into an order through the simulated payment flow.
type Service struct {
	carts    *cart.Manager
	catalog  *catalog.Store
	orders   *orders.Store
	users    *auth.Users
	emails   *notify.EmailLog
	policy   ShippingPolicy
	delay    time.Duration
	validate *validator.Validate

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService wires the checkout flow. delay is the simulated payment
// latency applied before the order is created.
func NewService(carts *cart.Manager, cat *catalog.Store, ord *orders.Store,
	users *auth.Users, emails *notify.EmailLog, policy ShippingPolicy, delay time.Duration) *Service {
	return &Service{
		carts:    carts,
		catalog:  cat,
		orders:   ord,
		users:    users,
		emails:   emails,
		policy:   policy,
		delay:    delay,
		validate: validator.New(),
		inFlight: map[string]struct{}{},
	}
}

// Policy returns the active shipping policy.
func (s *Service) Policy() ShippingPolicy {
	return s.policy
}

// Quote resolves the coupon and computes the current breakdown without
// touching any state. The error reports an invalid coupon code.
func (s *Service) Quote(ctx context.Context, scope, couponCode string) (Totals, *Coupon, error) {
	coupon, err := ResolveCoupon(couponCode)
	if err != nil {
		return Totals{}, nil, err
	}
	items := s.carts.Items(ctx, scope)
	return ComputeTotals(items, coupon, s.policy), coupon, nil
}

func (s *Service) acquire(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[scope]; busy {
		return false
	}
	s.inFlight[scope] = struct{}{}
	return true
}

func (s *Service) release(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, scope)
}

// Submit validates the form, simulates the payment delay and creates the
// order: persist it with a unique token, decrement stock, clear the cart,
// remember the shipping address on the profile and record the
// confirmation email. Only one submission per identity may be in flight;
// once the payment simulation starts it runs to completion.
func (s *Service) Submit(ctx context.Context, scope string, req SubmitRequest) (*orders.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteShipping, err)
	}
	option := paymentOption(req.PaymentMethod)
	if option == nil {
		return nil, ErrInvalidPayment
	}
	coupon, err := ResolveCoupon(req.Coupon)
	if err != nil {
		return nil, err
	}

	if !s.acquire(scope) {
		return nil, ErrSubmissionInFlight
	}
	defer s.release(scope)

	items := s.carts.Items(ctx, scope)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Simulated payment latency; no cancellation once initiated.
	time.Sleep(s.delay)

	totals := ComputeTotals(items, coupon, s.policy).Rounded()

	userEmail := scope
	if userEmail == "" {
		userEmail = "invitado"
	}
	address := auth.Address{
		Nombre:    strings.TrimSpace(req.Nombre),
		Direccion: strings.TrimSpace(req.Direccion),
		Ciudad:    strings.TrimSpace(req.Ciudad),
		Telefono:  strings.TrimSpace(req.Telefono),
	}

	order := orders.Order{
		ID:           fmt.Sprintf("ORD-%d", time.Now().UnixMilli()),
		Date:         time.Now().UTC(),
		Items:        items,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		ShippingCost: totals.ShippingCost,
		Total:        totals.Total,
		UserEmail:    userEmail,
		Shipping:     address,
		Status:       orders.StatusPendiente,
		Payment: orders.Payment{
			Method:    option.ID,
			Label:     option.Label,
			Reference: fmt.Sprintf("%s-%06d", strings.ToUpper(option.ID), rand.Intn(1_000_000)),
			Status:    "paid",
		},
	}
	if coupon != nil {
		order.Coupon = coupon.Code
	}

	// Collision on the random token is retried internally and never
	// surfaces to the caller.
	for {
		order.Token = GenerateToken(s.orders.Tokens(ctx))
		if err := s.orders.Append(ctx, order); err == nil {
			break
		} else {
			logger.Warnf("Submit: order append retry: %v", err)
			order.ID = fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
		}
	}

	for _, item := range items {
		if _, err := s.catalog.DecrementStock(ctx, item.ID, item.Cantidad, userEmail); err != nil {
			logger.Warnf("Submit: stock decrement %d: %v", item.ID, err)
		}
	}
	if err := s.carts.Clear(ctx, scope); err != nil {
		logger.Warnf("Submit: clear cart: %v", err)
	}

	if scope != "" {
		if err := s.users.RecordOrder(ctx, scope, address, order.Date); err != nil {
			logger.Warnf("Submit: record order on profile: %v", err)
		}
		s.emails.Send(ctx, scope,
			fmt.Sprintf("Confirmacion de pedido %s", order.ID),
			fmt.Sprintf("Hola %s, tu pedido %s se registro por %s. Gracias por comprar en UniShop.",
				address.Nombre, order.ID, currency.Format(order.Total, currency.Base)))
	}

	return &order, nil
}
