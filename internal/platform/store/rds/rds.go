// Package rds wraps go-redis with the small hash surface the rule sources read
package rds

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	DB       int
	Password string
}

// Client is a redis client limited to reads of hash keys
type Client struct {
	c *redis.Client
}

// Open builds a client; the connection is dialed lazily on first command
func Open(cfg Config) *Client {
	return &Client{c: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})}
}

// Ping reports whether the server answers
func (c *Client) Ping(ctx context.Context) error { return c.c.Ping(ctx).Err() }

// HGetAll returns every field of a hash; a missing key is an empty map
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.c.HGetAll(ctx, key).Result()
}

// Exists reports whether key is present
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.c.Exists(ctx, key).Result()
	return n > 0, err
}

// Close releases the connection pool
func (c *Client) Close() error { return c.c.Close() }
