package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/trainticket/config"
	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps the live state of running sagas. Entries expire so
// abandoned sagas do not pile up.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(cfg config.RedisConfig) *RedisStateStore {
	return newRedisStateStore(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		cfg.StateTTL(),
	)
}

func newRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (c *RedisStateStore) SetState(ctx context.Context, sagaID string, state domain.SagaState) error {
	return c.client.Set(ctx, sagaStateKey(sagaID), string(state), c.ttl).Err()
}

// GetState returns an empty state when the saga is unknown or expired.
func (c *RedisStateStore) GetState(ctx context.Context, sagaID string) (domain.SagaState, error) {
	val, err := c.client.Get(ctx, sagaStateKey(sagaID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return domain.SagaState(val), nil
}

func (c *RedisStateStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStateStore) Close() error {
	return c.client.Close()
}

func sagaStateKey(sagaID string) string {
	return fmt.Sprintf("saga:%s:state", sagaID)
}
