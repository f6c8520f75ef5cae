package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/infrastructure"
	"reviewhub/internal/app/reviews/repository"
	"reviewhub/pkg/logger"
	"reviewhub/pkg/metrics"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewService обрабатывает бизнес-логику хранилища отзывов:
// прием через merge, смену статусов и выдачу опубликованных
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	cache      PublishedReviewCache
	producer   infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	cache PublishedReviewCache,
	producer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		cache:      cache,
		producer:   producer,
	}
}

// ListReviews возвращает все сохраненные отзывы
func (s *ReviewService) ListReviews(ctx context.Context) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// IngestReviews сливает входящие отзывы с сохраненными и персистит результат
// Статусы и dateAdded известных отзывов переживают любое количество циклов
func (s *ReviewService) IngestReviews(ctx context.Context, incoming []entity.Review) ([]entity.Review, []entity.Review, error) {
	existing, err := s.reviewRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get existing reviews: %w", err)
	}

	merged, newReviews := MergeReviews(existing, incoming, time.Now())

	if err := s.reviewRepo.Upsert(ctx, merged); err != nil {
		return nil, nil, fmt.Errorf("failed to save merged reviews: %w", err)
	}

	metrics.ReviewsMergedNew.Add(float64(len(newReviews)))

	s.invalidateCache(ctx)

	return merged, newReviews, nil
}

// UpdateStatus меняет статус отзыва по решению оператора
func (s *ReviewService) UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) (*entity.Review, error) {
	if err := s.reviewRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated review: %w", err)
	}

	s.invalidateCache(ctx)

	event := entity.ReviewEvent{
		EventType: entity.EventReviewStatusChanged,
		ReviewID:  id,
		Status:    string(status),
		Timestamp: time.Now(),
	}
	s.publishEvent(ctx, event)

	return review, nil
}

// GetPublished возвращает опубликованные отзывы для партнерского API
// Полный список кэшируется в Redis, фильтры применяются поверх кэша
func (s *ReviewService) GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error) {
	reviews, err := s.cache.Get(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Published cache unavailable, falling back to store")
		reviews = nil
	}

	if reviews == nil {
		reviews, err = s.reviewRepo.GetPublished(ctx, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to get published reviews: %w", err)
		}

		if err := s.cache.Set(ctx, reviews); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache published reviews")
		}
	}

	filtered := make([]entity.Review, 0, len(reviews))
	for _, review := range reviews {
		if minRating > 0 && review.Rating < minRating {
			continue
		}
		filtered = append(filtered, review)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}

	return filtered, nil
}

func (s *ReviewService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate published reviews cache")
	}
}

// publishEvent отправляет событие пайплайна в Kafka
// Ошибки Kafka не критичны: состояние хранилища уже изменено
func (s *ReviewService) publishEvent(ctx context.Context, event entity.ReviewEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal review event")
		return
	}

	if err := s.producer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to publish review event")
	}
}
