package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"jpos/auth"
	"jpos/cart"
	"jpos/config"
	"jpos/db"
	"jpos/drawer"
	"jpos/held"
	"jpos/labels"
	"jpos/live"
	"jpos/metrics"
	"jpos/middleware"
	"jpos/mq"
	"jpos/products"
	"jpos/ratelim"
	"jpos/rdx"
	"jpos/routes"
	"jpos/selection"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, loaded := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if !loaded {
		logger.Info("no .env file found; using system environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	if err := store.CreateIndexes(ctx); err != nil {
		return err
	}

	conn, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// notices from every instance reach this instance's registers
	bus := mq.NewBus(conn, logger)
	hub := live.NewHub(logger)
	go hub.Run()
	go func() {
		if err := bus.Run(ctx, hub.Deliver); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notice subscription ended", zap.Error(err))
		}
	}()

	limiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(time.Minute, ctx.Done())

	repo := products.NewMongoRepository(store.Products)
	carts := cart.NewMongoStore(store.Carts)
	drawers := drawer.NewMongoStore(store.Drawers)
	heldCarts := held.NewRedisStore(conn)
	tokens := middleware.Auth{Secret: cfg.JWTSecret}

	deps := &routes.Deps{
		Auth:      tokens,
		Limiter:   limiter,
		Metrics:   m,
		Login:     &auth.Handler{Cashiers: auth.NewMongoCashiers(store.Cashiers), Tokens: tokens, TTL: cfg.TokenTTL, Logger: logger},
		Products:  &products.Handler{Repo: repo, Events: bus, Logger: logger, UploadDir: cfg.UploadDir},
		Selection: &selection.Handler{Products: repo, Held: heldCarts, Cart: carts, Drawers: drawers, Metrics: m, Logger: logger, Currency: cfg.Currency},
		Cart:      &cart.Handler{Store: carts, Logger: logger},
		Drawer:    &drawer.Handler{Store: drawers, Logger: logger},
		Held:      &held.Handler{Store: heldCarts, Cart: carts, Events: bus, Metrics: m, Logger: logger, Currency: cfg.Currency},
		Labels:    &labels.Handler{Products: repo, Currency: cfg.Currency, Logger: logger},
		Hub:       hub,
		UploadDir: cfg.UploadDir,
	}

	router := httprouter.New()
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	routes.RoutesWrapper(router, deps)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Register"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           middleware.Logging(logger, middleware.SecurityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		logger.Info("shutting down live hub")
		hub.Stop()
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped cleanly")
	return nil
}
