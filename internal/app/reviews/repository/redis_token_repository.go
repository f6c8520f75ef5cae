package repository

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

var (
	ErrTokensNotFound = errors.New("google tokens not found")
)

// Сервис работает с одним Google аккаунтом, поэтому ключ фиксированный
const googleTokensKey = "google_tokens"

// refresh токен живет дольше access токена, храним связку месяц
const tokensTTL = 30 * 24 * time.Hour

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis репозиторий OAuth токенов Google
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// Save сохраняет связку токенов в Redis
func (r *redisTokenRepository) Save(ctx context.Context, tokens *entity.GoogleTokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal google tokens: %w", err)
	}

	if err := r.client.Set(ctx, googleTokensKey, data, tokensTTL).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to save google tokens to Redis: %w", err)
	}

	return nil
}

// Get возвращает сохраненную связку токенов
func (r *redisTokenRepository) Get(ctx context.Context) (*entity.GoogleTokens, error) {
	data, err := r.client.Get(ctx, googleTokensKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokensNotFound
		}
		metrics.RecordRedisError(serviceName, "get")
		return nil, fmt.Errorf("failed to get google tokens from Redis: %w", err)
	}

	var tokens entity.GoogleTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal google tokens: %w", err)
	}

	return &tokens, nil
}

// Delete удаляет связку токенов (выход оператора)
func (r *redisTokenRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, googleTokensKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to delete google tokens from Redis: %w", err)
	}
	return nil
}
