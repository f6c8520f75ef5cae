package service

import (
	"context"

	"reviewhub/internal/app/reviews/entity"
)

// ReviewSource определяет интерфейс внешнего источника отзывов
// Реализации: PlacesClient (API ключ) и BusinessProfileClient (OAuth)
type ReviewSource interface {
	// FetchReviews получает отзывы из внешнего API в нормализованной форме
	FetchReviews(ctx context.Context) ([]entity.Review, error)
	// Provider возвращает имя провайдера для логов и метрик
	Provider() string
}

// ReviewIngestor определяет интерфейс приема отзывов в хранилище через merge
type ReviewIngestor interface {
	// IngestReviews сливает входящие отзывы с сохраненными и персистит результат
	// Возвращает итоговый набор и список впервые добавленных отзывов
	IngestReviews(ctx context.Context, incoming []entity.Review) ([]entity.Review, []entity.Review, error)
}

// Distributor определяет интерфейс рассылки отзывов на площадки
type Distributor interface {
	Distribute(ctx context.Context, reviewIDs, endpointIDs []string) (*entity.DistributionResult, error)
}

// PublishedReviewCache определяет интерфейс кэша опубликованных отзывов
type PublishedReviewCache interface {
	Get(ctx context.Context) ([]entity.Review, error)
	Set(ctx context.Context, reviews []entity.Review) error
	Invalidate(ctx context.Context) error
}
