package cache

import (
	"context"
	"testing"
	"time"

	"hotelbooking/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RoomCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRoomCache(client, time.Minute, logger.Discard())
}

func TestRoomCache_NilClientIsNoop(t *testing.T) {
	c := NewRoomCache(nil, time.Minute, logger.Discard())
	ctx := context.Background()

	assert.False(t, c.Enabled())
	at, hit := c.Get(ctx, "q", &[]int{})
	assert.False(t, hit)
	c.Set(ctx, at, "q", []int{1, 2})
	c.Invalidate(ctx)

	var out []int
	_, hit = c.Get(ctx, "q", &out)
	assert.False(t, hit)
	assert.Nil(t, out)
}

func TestRoomCache_NilReceiver(t *testing.T) {
	var c *RoomCache
	assert.False(t, c.Enabled())
}

func TestRoomCache_HitAfterSet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var out []int
	at, hit := c.Get(ctx, "loc=nice", &out)
	require.False(t, hit)
	c.Set(ctx, at, "loc=nice", []int{7, 8})

	_, hit = c.Get(ctx, "loc=nice", &out)
	require.True(t, hit)
	assert.Equal(t, []int{7, 8}, out)

	c.Invalidate(ctx)
	out = nil
	_, hit = c.Get(ctx, "loc=nice", &out)
	assert.False(t, hit)
}

func TestRoomCache_ResultComputedBeforeInvalidateIsNotServed(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var out []int
	at, hit := c.Get(ctx, "loc=nice", &out)
	require.False(t, hit)

	// inventory changes while the search is still reading rooms
	c.Invalidate(ctx)
	c.Set(ctx, at, "loc=nice", []int{1})

	_, hit = c.Get(ctx, "loc=nice", &out)
	assert.False(t, hit)
	assert.Nil(t, out)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient("", "", 0))
}

func TestNewRedisClient_Reachable(t *testing.T) {
	srv := miniredis.RunT(t)
	client := NewRedisClient(srv.Addr(), "", 0)
	require.NotNil(t, client)
	_ = client.Close()
}
