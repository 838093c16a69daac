package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/utils"
)

// Cache namespaces. Each namespace carries its own TTL; callers never pick
// ad-hoc expirations.
const (
	CacheNSReco        = "reco"
	CacheNSRecoDefault = "reco:default"
	CacheNSSearch      = "search"
	CacheNSTitle       = "title"
	CacheNSGenres      = "genres"
	CacheNSProviders   = "providers"
	CacheNSTmdb        = "tmdb"
)

var cacheTTLs = map[string]time.Duration{
	CacheNSReco:        30 * time.Minute,
	CacheNSRecoDefault: time.Hour,
	CacheNSSearch:      time.Hour,
	CacheNSTitle:       2 * time.Hour,
	CacheNSGenres:      7 * 24 * time.Hour,
	CacheNSProviders:   24 * time.Hour,
	CacheNSTmdb:        time.Hour,
}

// CacheKey builds a namespaced key deterministically from its parts.
func CacheKey(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(parts, ":")
}

// CacheTTL returns the namespace TTL; unknown namespaces get a short
// catch-all so a typo never produces an immortal key.
func CacheTTL(namespace string) time.Duration {
	if ttl, ok := cacheTTLs[namespace]; ok {
		return ttl
	}
	return 5 * time.Minute
}

// CacheService is a best-effort read-through cache. A miss or a cache
// failure never blocks serving; callers fall through to live queries.
type CacheService interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DelPattern(ctx context.Context, pattern string) error
	Close() error
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCacheService(log *logger.Logger) (CacheService, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{log: log.With("service", "CacheService"), rdb: rdb}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// DelPattern removes all keys matching a glob pattern via SCAN, so admin
// invalidation never blocks Redis the way KEYS would.
func (c *redisCache) DelPattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 200 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
