package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/app/reviews/entity"
)

// ReviewRepository определяет методы хранилища отзывов (MongoDB)
// Отзывы никогда не удаляются, только создаются merge-ем и меняют статус
type ReviewRepository interface {
	GetAll(ctx context.Context) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Review, error)
	GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error)
	Upsert(ctx context.Context, reviews []entity.Review) error
	UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) error
	UpdateStatusBulk(ctx context.Context, ids []string, status entity.ReviewStatus) (int64, error)
}

// EndpointRepository определяет методы хранилища площадок (PostgreSQL)
type EndpointRepository interface {
	List(ctx context.Context) ([]entity.Endpoint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Endpoint, error)
	GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Endpoint, error)
	GetActive(ctx context.Context) ([]entity.Endpoint, error)
	Create(ctx context.Context, endpoint *entity.Endpoint) error
	Update(ctx context.Context, endpoint *entity.Endpoint) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository определяет методы хранилища настроек синхронизации
// Настройки хранятся единственной строкой
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.SyncSettings, error)
	Save(ctx context.Context, settings *entity.SyncSettings) error
	UpdateLastSync(ctx context.Context, t time.Time) error
}

// TokenRepository определяет методы хранилища OAuth токенов Google (Redis)
type TokenRepository interface {
	Save(ctx context.Context, tokens *entity.GoogleTokens) error
	Get(ctx context.Context) (*entity.GoogleTokens, error)
	Delete(ctx context.Context) error
}
