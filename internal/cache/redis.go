package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client

	limitWindow time.Duration
	maxRequests int
}

func NewClient(addr string, maxRequests int, limitWindow time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb, limitWindow: limitWindow, maxRequests: maxRequests}, nil
}

// IsRateLimited counts a request for key in the current window. Redis
// failures never block traffic.
func (c *Client) IsRateLimited(ctx context.Context, key string) bool {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, c.limitWindow)
	_, err := pipe.Exec(ctx)

	if err != nil {
		return false
	}

	return incr.Val() > int64(c.maxRequests)
}

// GetMany returns one entry per key, nil where the key is absent.
func (c *Client) GetMany(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = []byte(s)
		}
	}
	return out, nil
}

func (c *Client) SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for key, data := range entries {
		pipe.Set(ctx, key, data, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
