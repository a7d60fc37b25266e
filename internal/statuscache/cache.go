// Package statuscache keeps a short-lived copy of the verification status
// snapshot per session so that resolver-driven redirects do not hammer the
// engineer service. Every successful submission invalidates the entry, which
// is what lets the flow advance to the next screen without a manual refresh.
package statuscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

const keyPrefix = "status:v1:"

// Cache stores snapshots in Redis. A nil *Cache or a Cache without a client
// is a no-op, so callers never have to branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New builds a snapshot cache. client may be nil.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached snapshot for a session, if present. Cache errors are
// logged and treated as a miss.
func (c *Cache) Get(ctx context.Context, sessionID string) (*onboarding.StatusSnapshot, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("status cache lookup failed", "error", err)
		}
		return nil, false
	}
	var snap onboarding.StatusSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		c.logger.Warn("status cache entry corrupt", "error", err)
		return nil, false
	}
	return &snap, true
}

// Put stores a snapshot for a session. Best effort.
func (c *Cache) Put(ctx context.Context, sessionID string, snap onboarding.StatusSnapshot) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+sessionID, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("status cache store failed", "error", err)
	}
}

// Invalidate drops the cached snapshot after a submission so the next resolve
// sees fresh upstream state.
func (c *Cache) Invalidate(ctx context.Context, sessionID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		c.logger.Warn("status cache invalidate failed", "error", err)
	}
}
