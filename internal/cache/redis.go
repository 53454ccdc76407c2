package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

const (
	keyPrefix     = "txdash:"
	generationKey = keyPrefix + "generation"
)

// Client wraps go-redis with the TTL and key namespace used for read results.
// A nil *Client is a disabled cache: every Get misses and writes are dropped.
type Client struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedis connects and pings; a failed ping is returned so startup can abort.
func NewRedis(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Get returns (nil, false) on any miss or error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.FromContext(ctx).Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set errors are logged only; a failed cache write never fails a request.
func (c *Client) Set(ctx context.Context, key string, value []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("cache write failed", "key", key, "error", err)
	}
}

// Generation returns the current cache generation; it is 0 until the first purge.
func (c *Client) Generation(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return gen, nil
}

// Purge invalidates every cached result by moving to the next generation.
func (c *Client) Purge(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
