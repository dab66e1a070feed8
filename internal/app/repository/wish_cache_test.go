package repository

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) (*CachedWishRepository, *miniredis.Miniredis) {
	_, base := setupWishTest(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return NewCachedWishRepository(base, client, time.Minute), mr
}

func TestCachedWishRepository_CachesDefaultFeedPage(t *testing.T) {
	repo, mr := setupCacheTest(t)

	author := domain.SessionIdentity(domain.SessionID("sess-1"))
	createTestWish(t, repo, author, "cache me")

	// First read populates the cache
	wishes, err := repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.Len(t, wishes, 1)
	assert.True(t, mr.Exists(feedCacheKey()))

	// Second read is served from the cache
	cached, err := repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, wishes[0].ID, cached[0].ID)
	assert.Equal(t, "cache me", cached[0].Content)
}

func TestCachedWishRepository_NonDefaultPageBypassesCache(t *testing.T) {
	repo, mr := setupCacheTest(t)

	author := domain.SessionIdentity(domain.SessionID("sess-1"))
	createTestWish(t, repo, author, "not cached")

	_, err := repo.FindLatest(5, 0)
	require.NoError(t, err)
	assert.False(t, mr.Exists(feedCacheKey()))

	_, err = repo.FindLatest(feedCacheLimit, 40)
	require.NoError(t, err)
	assert.False(t, mr.Exists(feedCacheKey()))
}

func TestCachedWishRepository_WritesEvict(t *testing.T) {
	repo, mr := setupCacheTest(t)

	author := domain.SessionIdentity(domain.SessionID("sess-1"))
	row := createTestWish(t, repo, author, "original")

	_, err := repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(feedCacheKey()))

	// Save evicts
	row.Content = "updated"
	require.NoError(t, repo.Save(row))
	assert.False(t, mr.Exists(feedCacheKey()))

	// AddSupport evicts
	_, err = repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(feedCacheKey()))

	supporter := domain.SessionIdentity(domain.SessionID("sess-2"))
	require.NoError(t, repo.AddSupport(row.ID, supporter))
	assert.False(t, mr.Exists(feedCacheKey()))

	// RemoveSupport evicts
	_, err = repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(feedCacheKey()))

	require.NoError(t, repo.RemoveSupport(row.ID, supporter))
	assert.False(t, mr.Exists(feedCacheKey()))
}

func TestCachedWishRepository_TTLExpiry(t *testing.T) {
	repo, mr := setupCacheTest(t)

	author := domain.SessionIdentity(domain.SessionID("sess-1"))
	createTestWish(t, repo, author, "expiring")

	_, err := repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(feedCacheKey()))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(feedCacheKey()))
}

func TestCachedWishRepository_NilClientPassesThrough(t *testing.T) {
	_, base := setupWishTest(t)
	repo := NewCachedWishRepository(base, nil, time.Minute)

	author := domain.SessionIdentity(domain.SessionID("sess-1"))
	createTestWish(t, repo, author, "no redis")

	wishes, err := repo.FindLatest(feedCacheLimit, 0)
	require.NoError(t, err)
	assert.Len(t, wishes, 1)
}
