package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mymoneyapp/backend/internal/domain/billing"
	"github.com/redis/go-redis/v9"
)

const summaryKey = "moneyapp:billing:summary"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Client is a thin wrapper over go-redis used to cache the billing summary.
// Cache misses and redis failures both fall back to the database.
type Client struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL

	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Client{redisdb: redisdb, ttl: ttl}
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

func (c *Client) GetSummary(ctx context.Context) (billing.Summary, bool) {
	raw, err := c.redisdb.Get(ctx, summaryKey).Bytes()

	if err != nil {
		return billing.Summary{}, false
	}

	var s billing.Summary

	err = json.Unmarshal(raw, &s)

	if err != nil {
		return billing.Summary{}, false
	}

	return s, true
}

func (c *Client) SetSummary(ctx context.Context, s billing.Summary) {
	raw, err := json.Marshal(s)

	if err != nil {
		return
	}

	// best effort, the summary is recomputable
	_ = c.redisdb.Set(ctx, summaryKey, raw, c.ttl).Err()
}

func (c *Client) InvalidateSummary(ctx context.Context) {
	_ = c.redisdb.Del(ctx, summaryKey).Err()
}
