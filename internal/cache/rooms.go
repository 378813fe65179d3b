package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const versionKey = "rooms:search:version"

// RoomCache stores serialized room search results. Entries are keyed by a
// generation number so one INCR invalidates every cached search. A nil
// client turns every method into a no-op.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRoomCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *RoomCache {
	return &RoomCache{client: client, ttl: ttl, log: log}
}

func (c *RoomCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *RoomCache) generation(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RoomCache) key(gen int64, query string) string {
	return fmt.Sprintf("rooms:search:%d:%s", gen, query)
}

// Lookup is the generation a cache read ran against. Results computed after
// the read are stored under that generation, so an invalidation that lands
// in between leaves them unreachable.
type Lookup struct {
	gen int64
	ok  bool
}

// Get decodes the cached value for query into dst and reports a hit. The
// returned Lookup is passed to Set on a miss.
func (c *RoomCache) Get(ctx context.Context, query string, dst any) (Lookup, bool) {
	if !c.Enabled() {
		return Lookup{}, false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.WithError(err).Warn("room cache: read generation failed")
		return Lookup{}, false
	}
	at := Lookup{gen: gen, ok: true}
	raw, err := c.client.Get(ctx, c.key(gen, query)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).Warn("room cache: get failed")
		}
		return at, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return at, false
	}
	return at, true
}

// Set stores v for query under the generation seen by the matching Get.
func (c *RoomCache) Set(ctx context.Context, at Lookup, query string, v any) {
	if !c.Enabled() || !at.ok {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(at.gen, query), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("room cache: set failed")
	}
}

// Invalidate drops every cached search by moving to a new generation.
func (c *RoomCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.WithError(err).Warn("room cache: invalidate failed")
	}
}
