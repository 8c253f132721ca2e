package promotion

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/storefront-checkout/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisRegistry on top of it
func setupTestRedis(t *testing.T) (*RedisRegistry, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisRegistry(client), mr
}

func TestRedisRegistry_SeedAndLookup(t *testing.T) {
	registry, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, registry.Seed(ctx, defaultCodes()...))
	assert.Equal(t, "15", mr.HGet(codesKey, "WELCOME15"))

	promo, err := registry.Lookup(ctx, "WELCOME15")
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionCode{Code: "WELCOME15", DiscountPercent: 15}, promo)
}

func TestRedisRegistry_Miss(t *testing.T) {
	registry, _ := setupTestRedis(t)

	_, err := registry.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRedisRegistry_MalformedValue(t *testing.T) {
	registry, mr := setupTestRedis(t)
	mr.HSet(codesKey, "BROKEN", "lots")
	mr.HSet(codesKey, "HUGE", "250")

	_, err := registry.Lookup(context.Background(), "BROKEN")
	assert.ErrorContains(t, err, "malformed percent")
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)

	_, err = registry.Lookup(context.Background(), "HUGE")
	assert.ErrorContains(t, err, "out of range")
}

func TestRedisRegistry_Revoke(t *testing.T) {
	registry, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, registry.Seed(ctx, defaultCodes()...))

	require.NoError(t, registry.Revoke(ctx, "save10"))

	_, err := NewValidator(registry).Validate(ctx, "SAVE10")
	assert.ErrorIs(t, err, domain.ErrInvalidPromoCode)
}

func TestRedisRegistry_ServerDown(t *testing.T) {
	registry, mr := setupTestRedis(t)
	mr.Close()

	_, err := registry.Lookup(context.Background(), "SAVE10")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCodeNotFound)
	assert.ErrorContains(t, err, "redis hget failed")
}
