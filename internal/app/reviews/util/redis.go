package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/pkg/metrics"
)

const (
	serviceName        = "reviewhub"
	publishedCacheKey  = "published_reviews:all"
	publishedKeyPrefix = "published_reviews"
)

// PublishedCache кэширует полный список опубликованных отзывов в Redis
// Фильтры minRating/limit применяются потребителем поверх кэша
type PublishedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPublishedCache(client *redis.Client, ttl time.Duration) *PublishedCache {
	return &PublishedCache{client: client, ttl: ttl}
}

// NewRedisClient открывает подключение к Redis с проверкой ping
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Set сохраняет список опубликованных отзывов с TTL
func (c *PublishedCache) Set(ctx context.Context, reviews []entity.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal published reviews: %w", err)
	}

	if err := c.client.Set(ctx, publishedCacheKey, data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to set published reviews in cache: %w", err)
	}

	return nil
}

// Get возвращает кэшированный список или nil при промахе
func (c *PublishedCache) Get(ctx context.Context) ([]entity.Review, error) {
	data, err := c.client.Get(ctx, publishedCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, publishedKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, "get")
		return nil, fmt.Errorf("failed to get published reviews from cache: %w", err)
	}

	var reviews []entity.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal published reviews: %w", err)
	}

	metrics.RecordCacheHit(serviceName, publishedKeyPrefix)
	return reviews, nil
}

// Invalidate сбрасывает кэш после смены статусов или дистрибуции
func (c *PublishedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, publishedCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to invalidate published reviews cache: %w", err)
	}
	return nil
}
