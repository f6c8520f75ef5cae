package util

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"reviewhub/internal/app/reviews/entity"
)

// PublishedCacheTestSuite тестовый suite для Redis кэша опубликованных отзывов
type PublishedCacheTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	cache     *PublishedCache
}

func TestPublishedCacheSuite(t *testing.T) {
	suite.Run(t, new(PublishedCacheTestSuite))
}

func (s *PublishedCacheTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.cache = NewPublishedCache(s.client, 5*time.Minute)
}

func (s *PublishedCacheTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *PublishedCacheTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *PublishedCacheTestSuite) TestSetAndGet() {
	ctx := context.Background()

	reviews := []entity.Review{
		{ID: "1", AuthorName: "Alice", Rating: 5, Status: entity.ReviewStatusPublished},
		{ID: "2", AuthorName: "Bob", Rating: 4, Status: entity.ReviewStatusPublished},
	}

	s.NoError(s.cache.Set(ctx, reviews))

	result, err := s.cache.Get(ctx)
	s.NoError(err)
	s.Len(result, 2)
	s.Equal("1", result[0].ID)
}

func (s *PublishedCacheTestSuite) TestGet_Miss() {
	// Промах кэша - nil без ошибки
	result, err := s.cache.Get(context.Background())

	s.NoError(err)
	s.Nil(result)
}

func (s *PublishedCacheTestSuite) TestSet_EmptyList() {
	ctx := context.Background()

	s.NoError(s.cache.Set(ctx, []entity.Review{}))

	result, err := s.cache.Get(ctx)
	s.NoError(err)
	s.NotNil(result)
	s.Empty(result)
}

func (s *PublishedCacheTestSuite) TestInvalidate() {
	ctx := context.Background()

	reviews := []entity.Review{{ID: "1", Rating: 5}}
	s.NoError(s.cache.Set(ctx, reviews))

	s.NoError(s.cache.Invalidate(ctx))

	result, err := s.cache.Get(ctx)
	s.NoError(err)
	s.Nil(result)
}

func (s *PublishedCacheTestSuite) TestTTL_Expiration() {
	shortCache := NewPublishedCache(s.client, time.Second)
	ctx := context.Background()

	s.NoError(shortCache.Set(ctx, []entity.Review{{ID: "1", Rating: 5}}))

	s.miniRedis.FastForward(2 * time.Second)

	result, err := shortCache.Get(ctx)
	s.NoError(err)
	s.Nil(result)
}

func (s *PublishedCacheTestSuite) TestRedisKeyFormat() {
	ctx := context.Background()

	s.NoError(s.cache.Set(ctx, []entity.Review{{ID: "1", Rating: 5}}))

	keys, err := s.client.Keys(ctx, "published_reviews:*").Result()
	s.NoError(err)
	s.Contains(keys, "published_reviews:all")
}
