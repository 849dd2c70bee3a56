package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"pharmaguard/internal/catalog"
	"pharmaguard/internal/config"
	"pharmaguard/internal/database"
	"pharmaguard/internal/engine"
	"pharmaguard/internal/httpapi"
	"pharmaguard/internal/middleware"
	"pharmaguard/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisClient, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	pg, err := database.NewPostgres(&cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()
	log.Println("Connected to PostgreSQL")

	subscriptionStore := webhook.NewPostgresSubscriptionStore(pg.Pool)
	if err := subscriptionStore.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to prepare webhook_subscriptions schema: %v", err)
	}

	deliveryDB, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("Failed to open delivery history store: %v", err)
	}
	defer deliveryDB.Close()

	historyStore := webhook.NewPostgresHistoryStore(deliveryDB)
	if err := historyStore.EnsureSchema(); err != nil {
		log.Fatalf("Failed to prepare webhook_deliveries schema: %v", err)
	}

	cachedHistory := webhook.NewCachingHistoryStore(
		historyStore,
		webhook.NewRecentDeliveryCache(redisClient.Client, cfg.Webhook.RecentCacheCapacity),
	)

	webhookManager := webhook.NewManager(subscriptionStore, cachedHistory, webhook.Config{
		DeliveryTimeout:   cfg.Webhook.DeliveryTimeout,
		DefaultRetryCount: cfg.Webhook.DefaultRetryCount,
		DefaultRetryDelay: cfg.Webhook.DefaultRetryDelay,
	})

	cat := catalog.New()
	if cfg.Catalog.BootstrapPath != "" {
		if err := loadBootstrapFile(cat, cfg.Catalog.BootstrapPath); err != nil {
			log.Printf("Warning: catalog bootstrap not loaded: %v", err)
		} else {
			log.Printf("Catalog loaded from %s", cfg.Catalog.BootstrapPath)
		}
	}

	eng := engine.New(cat, webhookManager, engine.Options{EnableEnsemble: true})
	handlers := httpapi.NewHandlers(eng, cfg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoverMiddleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORSMiddleware(nil))
	r.Use(chimiddleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		httpapi.SetupRoutes(r, handlers)
	})

	r.NotFound(middleware.NotFoundHandler())
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler())

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting pharmaguard server on %s", addr)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadBootstrapFile(cat *catalog.Catalog, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := cat.Load(f)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d medications", n)
	return nil
}
