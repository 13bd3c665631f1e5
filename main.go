package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"unishop/internal/auth"
	"unishop/internal/cart"
	"unishop/internal/catalog"
	"unishop/internal/checkout"
	"unishop/internal/config"
	"unishop/internal/currency"
	"unishop/internal/featureflags"
	mw "unishop/internal/http/middleware"
	"unishop/internal/logger"
	"unishop/internal/notify"
	"unishop/internal/orders"
	"unishop/internal/storage"
	"unishop/internal/wishlist"
)

func main() {
	cfg := config.Load()
	auth.SetSecret(cfg.JWTSecret)

	// 1) Storage init: Redis when configured, in-memory otherwise.
	var kv storage.Store
	var redisStore *storage.Redis
	if cfg.RedisAddr != "" {
		var err error
		redisStore, err = storage.NewRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("storage init failed: %v", err)
		}
		defer redisStore.Close()
		kv = redisStore
	} else {
		kv = storage.NewMemory()
	}

	// 2) Feature flags init (non-fatal)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := featureflags.Init(ctx, cfg.RolloutKey); err != nil {
		log.Printf("feature flags init warning: %v", err)
	} else {
		log.Printf("feature flags ready: offline=%v, logLevel=%s",
			featureflags.Values().Offline.IsEnabled(nil),
			featureflags.Values().LogLevel.GetValue(nil))
	}
	defer featureflags.Shutdown()

	// 2a) Initialize levelled logger from flag & watch for flips
	logger.Init(featureflags.Values().LogLevel.GetValue(nil))
	logger.Infof("log level set to %s", logger.GetLevel())

	go func() {
		prev := featureflags.Values().LogLevel.GetValue(nil)
		for {
			time.Sleep(5 * time.Second)
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}()

	// 3) Domain wiring
	notifier := notify.LogNotifier{}
	emailLog := notify.NewEmailLog(kv)

	users := auth.NewUsers(kv)
	if err := users.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}

	catalogStore := catalog.NewStore(kv)
	cartManager := cart.NewManager(kv, notifier)
	orderStore := orders.NewStore(kv)
	wishlistManager := wishlist.NewManager(kv, catalogStore)
	checkoutService := checkout.NewService(cartManager, catalogStore, orderStore,
		users, emailLog, checkout.DefaultShippingPolicy(), cfg.PaymentDelay)

	authHandler := auth.NewHandler(users)
	catalogHandler := catalog.NewHandler(catalogStore)
	cartHandler := cart.NewHandler(cartManager, catalogStore)
	checkoutHandler := checkout.NewHandler(checkoutService)
	orderHandler := orders.NewHandler(orderStore)
	wishlistHandler := wishlist.NewHandler(wishlistManager)

	// 4) Router
	r := mux.NewRouter()

	// 4a) Offline kill-switch middleware (placed immediately after router creation)
	offlineGate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// always allow health checks
			if r.URL.Path == "/health" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}
			// block all other requests when Offline flag is ON
			if featureflags.Values().Offline.IsEnabled(nil) {
				http.Error(w, "service temporarily offline", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	r.Use(offlineGate)

	// 4b) Request logger (skip noisy health endpoints)
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready")))

	// 5) Health endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		if redisStore != nil {
			if err := redisStore.Ping(req.Context()); err != nil {
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	// 6) Inspect current flag values
	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]interface{}{
			"offline":  featureflags.Values().Offline.IsEnabled(nil),
			"logLevel": featureflags.Values().LogLevel.GetValue(nil),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	// 7) Auth
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", auth.RequireAuth(authHandler.Me)).Methods(http.MethodGet)

	// 8) Catalog: public reads, admin mutations
	r.HandleFunc("/api/products", catalogHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/products/filters", catalogHandler.ResetFilters).Methods(http.MethodDelete)
	r.HandleFunc("/api/products/{id:[0-9]+}", catalogHandler.Get).Methods(http.MethodGet)

	r.HandleFunc("/api/products", auth.RequireAdmin(catalogHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/api/products/import", auth.RequireAdmin(catalogHandler.Import)).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id:[0-9]+}", auth.RequireAdmin(catalogHandler.Update)).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id:[0-9]+}", auth.RequireAdmin(catalogHandler.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/api/products/{id:[0-9]+}/stock", auth.RequireAdmin(catalogHandler.SetStock)).Methods(http.MethodPut)

	// 9) Currencies
	r.HandleFunc("/api/currencies", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"base":  currency.Base,
			"rates": currency.Rates(),
		})
	}).Methods(http.MethodGet)

	// 10) Cart (guest or authenticated; identity from the bearer token)
	r.HandleFunc("/api/cart", cartHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", cartHandler.Clear).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", cartHandler.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id:[0-9]+}", cartHandler.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/items/{id:[0-9]+}", cartHandler.RemoveItem).Methods(http.MethodDelete)

	// 11) Checkout
	r.HandleFunc("/api/checkout/quote", checkoutHandler.Quote).Methods(http.MethodPost)
	r.HandleFunc("/api/checkout", checkoutHandler.Submit).Methods(http.MethodPost)

	// 12) Orders
	r.HandleFunc("/api/orders", auth.RequireAuth(orderHandler.ListMine)).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/receipt", auth.RequireAuth(orderHandler.Receipt)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/orders", auth.RequireAdmin(orderHandler.ListAll)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/orders/{id}/status", auth.RequireAdmin(orderHandler.UpdateStatus)).Methods(http.MethodPut)
	r.HandleFunc("/api/admin/stock-log", auth.RequireAdmin(catalogHandler.StockLog)).Methods(http.MethodGet)

	// 13) Wishlist
	r.HandleFunc("/api/wishlist", auth.RequireAuth(wishlistHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/wishlist", auth.RequireAuth(wishlistHandler.Clear)).Methods(http.MethodDelete)
	r.HandleFunc("/api/wishlist/{productID:[0-9]+}", auth.RequireAuth(wishlistHandler.Toggle)).Methods(http.MethodPost)
	r.HandleFunc("/api/wishlist/{productID:[0-9]+}", auth.RequireAuth(wishlistHandler.Remove)).Methods(http.MethodDelete)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("unishop listening on %s", s.Addr)
	log.Fatal(s.ListenAndServe())
}
