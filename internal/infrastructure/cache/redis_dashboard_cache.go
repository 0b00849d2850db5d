package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	appreport "github.com/agency/backend/internal/application/report"
	"github.com/agency/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
)

const defaultDashboardKeyPrefix = "dashboard:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisDashboardCache implements DashboardCache using Redis.
// Each year is stored as a JSON document under its own key.
type RedisDashboardCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisDashboardCache connects to Redis and verifies the connection
func NewRedisDashboardCache(cfg RedisConfig, ttl time.Duration) (*RedisDashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisDashboardCacheWithClient(client, "", ttl), nil
}

// NewRedisDashboardCacheWithClient creates a cache with an existing Redis client
func NewRedisDashboardCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisDashboardCache {
	if keyPrefix == "" {
		keyPrefix = defaultDashboardKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &RedisDashboardCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisDashboardCache) key(year int) string {
	return c.keyPrefix + strconv.Itoa(year)
}

// Get returns the cached dashboard for a year
func (c *RedisDashboardCache) Get(ctx context.Context, year int) (*report.Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, c.key(year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}

	var d report.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// A value we cannot decode is treated as a miss and overwritten on Set.
		return nil, false, nil
	}
	return &d, true, nil
}

// Set stores the dashboard for a year with the configured TTL
func (c *RedisDashboardCache) Set(ctx context.Context, year int, d *report.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, c.key(year), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate removes every cached year
func (c *RedisDashboardCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan dashboard cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client
func (c *RedisDashboardCache) GetClient() *redis.Client {
	return c.client
}

var _ appreport.DashboardCache = (*RedisDashboardCache)(nil)
