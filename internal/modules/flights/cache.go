package flights

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"samway/internal/modules/intent"
)

// DefaultCacheTTL is how long a fetched airport list stays cached.
const DefaultCacheTTL = 24 * time.Hour

const cachePrefix = "samway:airports:"

// Cache stores raw airport lists per normalized city name.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(city string) string {
	return cachePrefix + intent.Normalize(city)
}

// Get reports false on a miss.
func (c *Cache) Get(ctx context.Context, city string) ([]Airport, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(city)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var airports []Airport
	if err := json.Unmarshal(raw, &airports); err != nil {
		return nil, false, err
	}
	return airports, true, nil
}

func (c *Cache) Set(ctx context.Context, city string, airports []Airport) error {
	raw, err := json.Marshal(airports)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(city), raw, c.ttl).Err()
}
