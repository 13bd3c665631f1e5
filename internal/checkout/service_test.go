package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishop/internal/auth"
	"unishop/internal/cart"
	"unishop/internal/catalog"
	"unishop/internal/notify"
	"unishop/internal/orders"
	"unishop/internal/storage"
)

type fixture struct {
	service *Service
	carts   *cart.Manager
	catalog *catalog.Store
	orders  *orders.Store
	users   *auth.Users
	emails  *notify.EmailLog
	ctx     context.Context
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	kv := storage.NewMemory()
	ctx := context.Background()

	f := &fixture{
		carts:   cart.NewManager(kv, notify.LogNotifier{}),
		catalog: catalog.NewStore(kv),
		orders:  orders.NewStore(kv),
		users:   auth.NewUsers(kv),
		emails:  notify.NewEmailLog(kv),
		ctx:     ctx,
	}
	f.service = NewService(f.carts, f.catalog, f.orders, f.users, f.emails,
		DefaultShippingPolicy(), delay)
	return f
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		Nombre:        "Ana Perez",
		Direccion:     "Av. Siempre Viva 123",
		Ciudad:        "Lima",
		Telefono:      "999888777",
		PaymentMethod: "yape",
	}
}

func (f *fixture) fillCart(t *testing.T, scope string, id, qty int) {
	t.Helper()
	p, err := f.catalog.Get(f.ctx, id)
	require.NoError(t, err)
	_, err = f.carts.Add(f.ctx, scope, *p)
	require.NoError(t, err)
	if qty > 1 {
		_, err = f.carts.SetQuantity(f.ctx, scope, id, qty)
		require.NoError(t, err)
	}
}

func TestSubmitCreatesOrder(t *testing.T) {
	f := newFixture(t, 0)
	scope := "ana@example.com"
	_, err := f.users.Register(f.ctx, scope, "secret123", "Ana")
	require.NoError(t, err)

	// product 2: Auriculares, 250 PEN, stock 18
	f.fillCart(t, scope, 2, 2)

	req := validRequest()
	req.Coupon = "descuento10"
	order, err := f.service.Submit(f.ctx, scope, req)
	require.NoError(t, err)

	assert.Contains(t, order.ID, "ORD-")
	assert.Contains(t, order.Token, "tok_")
	assert.Equal(t, 500.0, order.Subtotal)
	assert.Equal(t, 50.0, order.Discount)
	assert.Equal(t, 0.0, order.ShippingCost, "450 after discount but subtotal 500 is over the threshold")
	assert.Equal(t, 450.0, order.Total)
	assert.Equal(t, "DESCUENTO10", order.Coupon)
	assert.Equal(t, orders.StatusPendiente, order.Status)
	assert.Equal(t, "paid", order.Payment.Status)
	assert.Equal(t, "yape", order.Payment.Method)

	// persisted
	stored, err := f.orders.Get(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Token, stored.Token)

	// cart cleared, stock decremented, profile updated, email recorded
	assert.Empty(t, f.carts.Items(f.ctx, scope))
	p, err := f.catalog.Get(f.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 16, p.Stock)

	user, err := f.users.Get(f.ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, "Lima", user.DefaultAddress.Ciudad)
	require.NotNil(t, user.LastOrderAt)

	sent := f.emails.Sent(f.ctx)
	require.Len(t, sent, 1)
	assert.Equal(t, scope, sent[0].To)
	assert.Contains(t, sent[0].Subject, order.ID)
}

func TestSubmitGuestSkipsProfileAndEmail(t *testing.T) {
	f := newFixture(t, 0)
	f.fillCart(t, "", 4, 1)

	order, err := f.service.Submit(f.ctx, "", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "invitado", order.UserEmail)
	assert.Empty(t, f.emails.Sent(f.ctx))
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.service.Submit(f.ctx, "", validRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitRejectsInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t, 0)
	f.fillCart(t, "", 4, 1)

	req := validRequest()
	req.PaymentMethod = "efectivo"
	_, err := f.service.Submit(f.ctx, "", req)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestSubmitRejectsInvalidCoupon(t *testing.T) {
	f := newFixture(t, 0)
	f.fillCart(t, "", 4, 1)

	req := validRequest()
	req.Coupon = "NOEXISTE"
	_, err := f.service.Submit(f.ctx, "", req)
	assert.ErrorIs(t, err, ErrInvalidCoupon)
	assert.Len(t, f.carts.Items(f.ctx, ""), 1, "rejected submission leaves the cart untouched")
}

func TestSubmitRejectsMissingShippingFields(t *testing.T) {
	f := newFixture(t, 0)
	f.fillCart(t, "", 4, 1)

	req := validRequest()
	req.Direccion = ""
	_, err := f.service.Submit(f.ctx, "", req)
	assert.ErrorIs(t, err, ErrIncompleteShipping)
}

func TestSubmitSingleInFlightPerIdentity(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond)
	f.fillCart(t, "", 4, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.service.Submit(f.ctx, "", validRequest())
	}()

	time.Sleep(50 * time.Millisecond)
	_, secondErr := f.service.Submit(f.ctx, "", validRequest())
	assert.ErrorIs(t, secondErr, ErrSubmissionInFlight)

	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, f.orders.List(f.ctx), 1, "exactly one order despite the double click")
}

func TestSubmitAllowsOversoldCartAndFloorsStock(t *testing.T) {
	f := newFixture(t, 0)
	// product 1: Laptop, stock 5; order 8 of them
	f.fillCart(t, "", 1, 8)

	order, err := f.service.Submit(f.ctx, "", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 8, order.Items[0].Cantidad)

	p, err := f.catalog.Get(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestQuoteReportsInvalidCoupon(t *testing.T) {
	f := newFixture(t, 0)
	f.fillCart(t, "", 4, 1)

	_, _, err := f.service.Quote(f.ctx, "", "NOEXISTE")
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	totals, coupon, err := f.service.Quote(f.ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, coupon)
	assert.Equal(t, 120.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.ShippingCost)
}
