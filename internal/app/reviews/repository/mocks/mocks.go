package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/app/reviews/entity"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetAll(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Review, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error) {
	args := m.Called(ctx, minRating, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Upsert(ctx context.Context, reviews []entity.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateStatusBulk(ctx context.Context, ids []string, status entity.ReviewStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockEndpointRepository мок для EndpointRepository
type MockEndpointRepository struct {
	mock.Mock
}

func (m *MockEndpointRepository) List(ctx context.Context) ([]entity.Endpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Endpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Endpoint, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetActive(ctx context.Context) ([]entity.Endpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) Create(ctx context.Context, endpoint *entity.Endpoint) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

func (m *MockEndpointRepository) Update(ctx context.Context, endpoint *entity.Endpoint) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

func (m *MockEndpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository мок для SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*entity.SyncSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *entity.SyncSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) UpdateLastSync(ctx context.Context, t time.Time) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockTokenRepository мок для TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Save(ctx context.Context, tokens *entity.GoogleTokens) error {
	args := m.Called(ctx, tokens)
	return args.Error(0)
}

func (m *MockTokenRepository) Get(ctx context.Context) (*entity.GoogleTokens, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GoogleTokens), args.Error(1)
}

func (m *MockTokenRepository) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublishedCache мок для кеша опубликованных отзывов
type MockPublishedCache struct {
	mock.Mock
}

func (m *MockPublishedCache) Get(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockPublishedCache) Set(ctx context.Context, reviews []entity.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockPublishedCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
