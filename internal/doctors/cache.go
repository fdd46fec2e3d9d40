package doctors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

const cacheKeyPrefix = "carelink:doctors:"

// DirectoryCache caches doctor directory listings in Redis. All methods
// are best-effort: cache failures degrade to repository reads.
type DirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewDirectoryCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *DirectoryCache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DirectoryCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(filter users.DoctorFilter) string {
	approved := "any"
	if filter.Approved != nil {
		approved = fmt.Sprintf("%t", *filter.Approved)
	}
	return fmt.Sprintf("%slist:spec=%s:approved=%s:minrating=%.1f:q=%s",
		cacheKeyPrefix, filter.Specialization, approved, filter.MinRating, filter.Search)
}

// Get returns the cached listing for a filter, or ok=false on miss.
func (c *DirectoryCache) Get(ctx context.Context, filter users.DoctorFilter) ([]*users.User, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, cacheKey(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("doctor cache read failed", "error", err)
		}
		return nil, false
	}

	var result []*users.User
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("doctor cache decode failed", "error", err)
		return nil, false
	}
	return result, true
}

// Set stores a listing under its filter key.
func (c *DirectoryCache) Set(ctx context.Context, filter users.DoctorFilter, doctors []*users.User) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(doctors)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(filter), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("doctor cache write failed", "error", err)
	}
}

// Invalidate drops every cached listing. Called when a doctor's profile,
// approval, or rating changes.
func (c *DirectoryCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("doctor cache scan failed", "error", err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("doctor cache invalidation failed", "error", err)
		}
	}
}
