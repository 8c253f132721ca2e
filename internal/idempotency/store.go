package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// Store remembers request keys for ttl so a retried confirmation is answered
// without placing a second order.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key scopes a client supplied key to the user and operation.
func (s *Store) Key(operation, userID, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s", operation, userID, key)
}

// Seen claims key and reports whether it had already been claimed.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "claim idempotency key")
	}

	return !ok, nil
}

// Release forgets key so the request may be retried, e.g. after a failed
// attempt that changed nothing.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "release idempotency key")
	}
	return nil
}
