package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/api"
	"github.com/Guizzs26/go-order-guard/internal/broker"
	"github.com/Guizzs26/go-order-guard/internal/config"
	"github.com/Guizzs26/go-order-guard/internal/db"
	"github.com/Guizzs26/go-order-guard/internal/service"
	"github.com/Guizzs26/go-order-guard/pkg/infra"
	_ "github.com/Guizzs26/go-order-guard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg.LoggerOptions())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("🔥 Users service initializing...", "version", "1.0.0")

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("CRITICAL: Postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Lifecycle events are a best-effort side channel; a dead broker only
	// costs downstream caches their updates
	client, err := infra.Retry(ctx, cfg.BootstrapPolicy(), func(ctx context.Context) (*broker.RabbitMQClient, error) {
		return broker.NewRabbitMQClient(cfg.RabbitMQURL, logger)
	})
	if err != nil {
		logger.Error("⚠️ Broker unreachable after bounded retries, publishing disabled", "error", err)
	}

	var publisher *broker.EventPublisher
	if client != nil {
		defer client.Close()
		publisher = broker.NewEventPublisher(client, logger)
	} else {
		publisher = broker.NewEventPublisher(nil, logger)
	}

	users := service.NewUserService(db.NewUserRepository(pool), publisher, logger)

	go startObservabilityServer(cfg.MetricsPort, logger)

	router := api.NewRouter()
	api.NewUsersHandler(users, logger).Register(router)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("🚀 Users API online", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: API server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("👋 Shutting down users service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API shutdown error", "error", err)
	}
	logger.Info("✅ Shutdown complete")
}

func startObservabilityServer(port string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("USERS ALIVE"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("📊 Observability server online", "url", "http://localhost:"+port+"/metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Observability server failed", "error", err)
	}
}
