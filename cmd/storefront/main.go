package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/internal/catalog"
	"github.com/fjod/storefront-checkout/internal/checkout"
	"github.com/fjod/storefront-checkout/internal/config"
	h "github.com/fjod/storefront-checkout/internal/http"
	"github.com/fjod/storefront-checkout/internal/idempotency"
	"github.com/fjod/storefront-checkout/internal/orderid"
	"github.com/fjod/storefront-checkout/internal/payment"
	"github.com/fjod/storefront-checkout/internal/pricing"
	"github.com/fjod/storefront-checkout/internal/promotion"
	"github.com/fjod/storefront-checkout/internal/publisher"
	"github.com/fjod/storefront-checkout/internal/service"
	"github.com/fjod/storefront-checkout/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	paymentLatency  = 150 * time.Millisecond
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	registry := promotion.NewRedisRegistry(redisClient)
	if err := registry.Seed(ctx, cfg.PromoCodes...); err != nil {
		log.Fatal("failed to seed promotion codes", zap.Error(err))
	}

	policy, err := pricing.NewPolicy(cfg.Pricing)
	if err != nil {
		log.Fatal("invalid pricing config", zap.Error(err))
	}

	breakerSettings := payment.DefaultBreakerSettings()
	breakerSettings.Timeout = cfg.BreakerTimeout
	payments := payment.NewBreakerGateway(
		payment.NewMockGateway(payment.RandomStatus{}, paymentLatency, log),
		breakerSettings,
		log,
	)

	checkouts := checkout.NewService(policy, promotion.NewValidator(registry), orderid.NewGenerator(), payments, log)

	products, err := catalog.NewMemoryStore(catalog.DemoProducts()...)
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}

	outbox := publisher.NewMemoryOutbox()
	if len(cfg.KafkaBrokers) > 0 {
		writer := publisher.NewKafkaWriter(cfg.OrderTopic, cfg.KafkaBrokers...)
		defer writer.Close()
		go publisher.NewOutboxPoller(outbox, writer, log).Run(ctx)
		log.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderTopic))
	} else {
		log.Warn("KAFKA_BROKERS not set, order events stay in the outbox")
	}

	svc := service.NewStorefrontService(catalog.NewLoader(products, log), products, checkouts, outbox, log)

	router := h.NewRouter(
		h.NewProductHandler(products),
		h.NewCartHandler(svc, cfg.RequestTimeout),
		h.NewCheckoutHandler(svc, idempotency.NewStore(redisClient, cfg.IdempotencyTTL), cfg.RequestTimeout, log),
		cfg.RequestTimeout,
		log,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited", zap.Int("pending_order_events", outbox.Pending()))
}
