package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/trainticket/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestSagaStateKey(t *testing.T) {
	assert.Equal(t, "saga:abc-123:state", sagaStateKey("abc-123"))
}

func TestNewRedisStateStore_UsesConfiguredTTL(t *testing.T) {
	store := NewRedisStateStore(config.RedisConfig{Addr: "localhost:6379", StateTTLMinutes: 15})
	defer store.Close()

	assert.Equal(t, 15*time.Minute, store.ttl)
}

func TestRedisStateStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := newRedisStateStore(client, time.Minute)
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.SetState(ctx, "saga-1", "START"))
	_, err := store.GetState(ctx, "saga-1")
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))
}
