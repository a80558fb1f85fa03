package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"yamdb-api/internal/model"
)

const titleVersionKey = "catalog:titles:version"

// TitlePage is a cached title listing.
type TitlePage struct {
	Count  int64         `json:"count"`
	Titles []model.Title `json:"titles"`
}

// TitleListCache caches title listings per query. Entries are keyed by a
// catalog version counter, so bumping the counter orphans every entry at once
// and the TTL reclaims them.
type TitleListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewTitleListCache(client *redisv9.Client, ttl time.Duration) *TitleListCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &TitleListCache{client: client, ttl: ttl}
}

func (c *TitleListCache) Get(ctx context.Context, query string) (*TitlePage, bool, error) {
	key, err := c.listKey(ctx, query)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get titles failed: %w", err)
	}

	var page TitlePage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached titles failed: %w", err)
	}
	return &page, true, nil
}

func (c *TitleListCache) Set(ctx context.Context, query string, page TitlePage) error {
	key, err := c.listKey(ctx, query)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal titles cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set titles failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing.
func (c *TitleListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, titleVersionKey).Err(); err != nil {
		return fmt.Errorf("redis bump titles version failed: %w", err)
	}
	return nil
}

func (c *TitleListCache) listKey(ctx context.Context, query string) (string, error) {
	version, err := c.client.Get(ctx, titleVersionKey).Int64()
	if err != nil && !errors.Is(err, redisv9.Nil) {
		return "", fmt.Errorf("redis get titles version failed: %w", err)
	}
	return titleListKey(version, query), nil
}

func titleListKey(version int64, query string) string {
	return fmt.Sprintf("catalog:titles:%d:%s", version, query)
}
