package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/redis/go-redis/v9"
)

// feedCacheLimit is the only page the cache serves: the default first page
// of the public feed, which takes nearly all read traffic. Everything else
// goes straight to the database.
const feedCacheLimit = 20

// CachedWishRepository decorates a WishRepository with a Redis cache for
// the hot feed page. Writes evict. A nil client degrades to pass-through.
type CachedWishRepository struct {
	WishRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedWishRepository(base WishRepository, client *redis.Client, ttl time.Duration) *CachedWishRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedWishRepository{
		WishRepository: base,
		redis:          client,
		ttl:            ttl,
	}
}

func (c *CachedWishRepository) FindLatest(limit, offset int) ([]model.Wish, error) {
	if limit == feedCacheLimit && offset == 0 {
		if wishes, ok := c.loadFeed(); ok {
			return wishes, nil
		}
	}

	wishes, err := c.WishRepository.FindLatest(limit, offset)
	if err != nil {
		return nil, err
	}

	if limit == feedCacheLimit && offset == 0 {
		c.storeFeed(wishes)
	}
	return wishes, nil
}

// FindLatestWithSupportStatus is viewer-specific and bypasses the shared
// cache entirely.

func (c *CachedWishRepository) Save(wish *model.Wish) error {
	if err := c.WishRepository.Save(wish); err != nil {
		return err
	}
	c.evict()
	return nil
}

func (c *CachedWishRepository) AddSupport(wishID string, supporter domain.Identity) error {
	if err := c.WishRepository.AddSupport(wishID, supporter); err != nil {
		return err
	}
	c.evict()
	return nil
}

func (c *CachedWishRepository) RemoveSupport(wishID string, supporter domain.Identity) error {
	if err := c.WishRepository.RemoveSupport(wishID, supporter); err != nil {
		return err
	}
	c.evict()
	return nil
}

func (c *CachedWishRepository) loadFeed() ([]model.Wish, bool) {
	if c.redis == nil {
		return nil, false
	}
	ctx := context.Background()
	data, err := c.redis.Get(ctx, feedCacheKey()).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the database without failing.
			_ = c.redis.Del(ctx, feedCacheKey()).Err()
		}
		return nil, false
	}
	var wishes []model.Wish
	if err := json.Unmarshal(data, &wishes); err != nil {
		_ = c.redis.Del(ctx, feedCacheKey()).Err()
		return nil, false
	}
	return wishes, true
}

func (c *CachedWishRepository) storeFeed(wishes []model.Wish) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(wishes)
	if err != nil {
		return
	}
	_ = c.redis.Set(context.Background(), feedCacheKey(), data, c.ttl).Err()
}

func (c *CachedWishRepository) evict() {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(context.Background(), feedCacheKey()).Result()
}

func feedCacheKey() string {
	return fmt.Sprintf("wishes:latest:%d", feedCacheLimit)
}
