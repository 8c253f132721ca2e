package promotion

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/storefront-checkout/domain"
)

const codesKey = "promo:codes"

// RedisRegistry keeps codes in a single Redis hash: code -> discount percent.
type RedisRegistry struct {
	client *redis.Client
	key    string
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{
		client: client,
		key:    codesKey,
	}
}

func (r *RedisRegistry) Lookup(ctx context.Context, code string) (domain.PromotionCode, error) {
	raw, err := r.client.HGet(ctx, r.key, code).Result()
	if errors.Is(err, redis.Nil) {
		return domain.PromotionCode{}, ErrCodeNotFound
	}
	if err != nil {
		return domain.PromotionCode{}, errors.Wrap(err, "redis hget failed")
	}

	percent, err := strconv.Atoi(raw)
	if err != nil {
		return domain.PromotionCode{}, errors.Wrapf(err, "promo %s has malformed percent %q", code, raw)
	}
	promo := domain.PromotionCode{Code: code, DiscountPercent: percent}
	if !promo.IsValid() {
		return domain.PromotionCode{}, errors.Errorf("promo %s has out of range percent %d", code, percent)
	}
	return promo, nil
}

// Seed writes codes into the hash, replacing existing values.
func (r *RedisRegistry) Seed(ctx context.Context, codes ...domain.PromotionCode) error {
	if len(codes) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(codes))
	for _, c := range codes {
		values[Normalize(c.Code)] = c.DiscountPercent
	}
	if err := r.client.HSet(ctx, r.key, values).Err(); err != nil {
		return errors.Wrap(err, "redis hset failed")
	}
	return nil
}

// Revoke removes a code so that sessions holding it fail re-validation.
func (r *RedisRegistry) Revoke(ctx context.Context, code string) error {
	if err := r.client.HDel(ctx, r.key, Normalize(code)).Err(); err != nil {
		return errors.Wrap(err, "redis hdel failed")
	}
	return nil
}
