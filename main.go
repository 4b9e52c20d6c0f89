package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/egannguyen/go-orders-inventory/internal/config"
	delivery "github.com/egannguyen/go-orders-inventory/internal/delivery/http"
	"github.com/egannguyen/go-orders-inventory/internal/messaging"
	"github.com/egannguyen/go-orders-inventory/internal/messaging/kafka"
	"github.com/egannguyen/go-orders-inventory/internal/repository"
	"github.com/egannguyen/go-orders-inventory/internal/repository/memory"
	"github.com/egannguyen/go-orders-inventory/internal/repository/postgres"
	"github.com/egannguyen/go-orders-inventory/internal/service"
	"github.com/egannguyen/go-orders-inventory/internal/webhook"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if cfg.UsingDefaultSecret() {
		slog.Warn("WEBHOOK_SECRET is not set, using the placeholder secret; do not run like this in production")
	}

	// --- Storage ---
	var (
		productRepo repository.ProductRepository
		orderRepo   repository.OrderRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.InitDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to init database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		productRepo = postgres.NewProductRepository(db)
		orderRepo = postgres.NewOrderRepository(db)
	} else {
		slog.Info("DATABASE_URL not set, using in-memory store")
		store := memory.New()
		productRepo = store.Products()
		orderRepo = store.Orders()
	}

	// --- Replay guard ---
	var guard webhook.ReplayGuard
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		guard = webhook.NewRedisGuard(client, cfg.ReplayTTL)
		slog.Info("Replay guard backed by Redis", "addr", cfg.RedisAddr, "ttl", cfg.ReplayTTL)
	} else {
		guard = webhook.NewMemoryGuard()
		slog.Info("Replay guard in memory, event ids are kept for the process lifetime")
	}

	// --- Event publication ---
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		broker := kafka.NewBroker(cfg.KafkaBrokers)
		defer broker.Close()
		publisher = broker
		slog.Info("Publishing domain events to Kafka", "brokers", cfg.KafkaBrokers)
	}

	// --- Services & HTTP ---
	orderSvc := service.NewOrderService(productRepo, orderRepo, publisher)
	paymentSvc := service.NewPaymentService([]byte(cfg.WebhookSecret), guard, orderSvc)

	mux := http.NewServeMux()
	delivery.NewHandler(orderSvc, paymentSvc).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: delivery.EnableCORS(mux),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "err", err)
	}
}
