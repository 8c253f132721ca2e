package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/pricing"
	"github.com/fjod/storefront-checkout/internal/promotion"
)

const defaultPromoCodes = "SAVE10:10,WELCOME15:15,FIRST20:20"

type Config struct {
	HTTPPort       string
	RedisAddr      string
	RedisPassword  string
	KafkaBrokers   []string
	OrderTopic     string
	Pricing        pricing.Config
	PromoCodes     []domain.PromotionCode
	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	BreakerTimeout time.Duration
	LogLevel       string
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory fill in variables that are not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	return fromEnv()
}

func fromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		OrderTopic:    getEnv("ORDER_TOPIC", "orders.placed"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	defaults := pricing.DefaultConfig()
	var err error
	if cfg.Pricing.StandardShippingFee, err = getDecimal("STANDARD_SHIPPING_FEE", defaults.StandardShippingFee); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.ExpressShippingFee, err = getDecimal("EXPRESS_SHIPPING_FEE", defaults.ExpressShippingFee); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.FreeShippingThreshold, err = getDecimal("FREE_SHIPPING_THRESHOLD", defaults.FreeShippingThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.TaxRate, err = getDecimal("TAX_RATE", defaults.TaxRate); err != nil {
		return Config{}, err
	}
	if err := cfg.Pricing.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "pricing config")
	}

	if cfg.PromoCodes, err = promotion.ParseCodes(getEnv("PROMO_CODES", defaultPromoCodes)); err != nil {
		return Config{}, errors.Wrap(err, "PROMO_CODES")
	}

	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.BreakerTimeout, err = getDuration("BREAKER_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "%s", key)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	if v <= 0 {
		return 0, errors.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
