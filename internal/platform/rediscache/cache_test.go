package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/liftplan/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)

	type entry struct {
		Name string `json:"name"`
	}

	var got entry
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", entry{Name: "push"}))
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, "push", got.Name)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss, "entries expire after the ttl")

	require.NoError(t, cache.Set(ctx, "k", entry{Name: "pull"}))
	require.NoError(t, cache.Delete(ctx, "k", "absent"))
	assert.False(t, mr.Exists("k"))
	assert.NoError(t, cache.Delete(ctx))
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	// the address stays unreachable once the server is gone
	mr.Close()
	_, err = NewClient(ctx, config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
