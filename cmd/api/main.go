package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/blob"
	"github.com/ariefcatur/go-marketplace/internal/cart"
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/config"
	"github.com/ariefcatur/go-marketplace/internal/events"
	"github.com/ariefcatur/go-marketplace/internal/httpx"
	"github.com/ariefcatur/go-marketplace/internal/identity"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/ariefcatur/go-marketplace/internal/logx"
	"github.com/ariefcatur/go-marketplace/internal/orders"
	"github.com/ariefcatur/go-marketplace/internal/postgres"
	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.ServiceName, cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	listingEvents := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicListingChanged, 1024, log)
	listingEvents.Start(ctx)
	orderEvents := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderPlaced, 1024, log)
	orderEvents.Start(ctx)

	// Repos & services
	listings := &catalog.Repo{DB: db}
	accounts := &identity.Repo{DB: db}
	pricing := cart.NewPricing(cfg.ShippingFlatFee, cfg.FreeShippingThreshold)
	carts := &cart.Store{RDB: rdb, TTL: redisx.TTLCart}

	storefront := &catalog.Service{
		Remote:   &catalog.Source{Listings: listings, Sellers: listings, Log: log},
		Cache:    &catalog.SnapshotCache{RDB: rdb},
		Fallback: catalog.FallbackProducts(),
		Log:      log,
	}
	manager := &catalog.Manager{
		Store:    listings,
		Images:   blob.New(cfg.UploadDir, cfg.PublicBaseURL),
		Events:   listingEvents,
		Producer: cfg.ServiceName,
		Log:      log,
	}
	auth := &identity.Service{
		Accounts: accounts,
		Tokens:   &identity.Sessions{RDB: rdb, TTL: cfg.SessionTTL},
		Log:      log,
	}
	guard := &httpx.Guard{Identities: auth, Roles: accounts}

	// Router & handlers
	router := httpx.NewRouter(log)
	(&httpx.CatalogHandler{Catalog: storefront}).Register(router)
	(&httpx.AuthHandler{Auth: auth, Roles: accounts}).Register(router)
	router.Group(func(r chi.Router) {
		r.Use(httpx.SessionCookie(redisx.TTLCart))
		(&httpx.CartHandler{
			Carts:    carts,
			Products: storefront,
			Pricing:  pricing,
			Checkout: &cart.Checkout{Carts: carts, Pricing: pricing, Events: orderEvents, Producer: cfg.ServiceName, Log: log},
		}).Register(r)
	})
	(&httpx.SellerHandler{Listings: manager, Guard: guard}).Register(router)
	(&httpx.AdminHandler{
		Listings: manager,
		Users:    accounts,
		Products: listings,
		Sellers:  listings,
		Guard:    guard,
	}).Register(router)
	(&httpx.OrdersHandler{Orders: &orders.Repo{DB: db}}).Register(router)
	httpx.Uploads(router, cfg.UploadDir)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	listingEvents.Close()
	orderEvents.Close()
	cancel()
	listingEvents.WaitClosed()
	orderEvents.WaitClosed()
}
