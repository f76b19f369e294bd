package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb        *redis.Client
	listingTTL time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, listingTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, listingTTL: listingTTL}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func listingKey(id int64) string {
	return fmt.Sprintf("listing:%d", id)
}

// GetCachedListing returns a cached listing, or nil on a cache miss
func (c *Client) GetCachedListing(ctx context.Context, id int64) (*models.Listing, error) {
	data, err := c.rdb.Get(ctx, listingKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return &listing, nil
}

// CacheListing stores a listing with the configured TTL
func (c *Client) CacheListing(ctx context.Context, listing *models.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	return c.rdb.Set(ctx, listingKey(listing.ID), data, c.listingTTL).Err()
}

// InvalidateListing drops a listing from the cache after a write
func (c *Client) InvalidateListing(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, listingKey(id)).Err()
}
