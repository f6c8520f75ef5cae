package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/infrastructure"
	"reviewhub/internal/app/reviews/repository"
	"reviewhub/pkg/logger"
	"reviewhub/pkg/metrics"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrNoReviewsToDistribute = errors.New("no reviews found to distribute")
	ErrNoActiveEndpoints     = errors.New("no active endpoints found")
)

// DistributionService рассылает выбранные отзывы на активные площадки
// Отправки выполняются параллельно и независимо: сбой одной площадки
// не прерывает остальные и не валит вызов целиком
type DistributionService struct {
	reviewRepo   repository.ReviewRepository
	endpointRepo repository.EndpointRepository
	cache        PublishedReviewCache
	producer     infrastructure.MessagePublisher
	httpClient   *http.Client
	timeout      time.Duration
}

// NewDistributionService создает новый сервис дистрибуции
func NewDistributionService(
	reviewRepo repository.ReviewRepository,
	endpointRepo repository.EndpointRepository,
	cache PublishedReviewCache,
	producer infrastructure.MessagePublisher,
	timeoutSec int,
) *DistributionService {
	timeout := time.Duration(timeoutSec) * time.Second
	return &DistributionService{
		reviewRepo:   reviewRepo,
		endpointRepo: endpointRepo,
		cache:        cache,
		producer:     producer,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// distributionPayload - тело POST на площадку
type distributionPayload struct {
	Reviews []entity.Review `json:"reviews"`
}

// Distribute отправляет отзывы reviewIDs на активные площадки endpointIDs.
// Неактивные площадки молча пропускаются, даже если запрошены явно.
// Отзывы помечаются published только когда хотя бы одна площадка приняла
// рассылку успешно.
func (s *DistributionService) Distribute(ctx context.Context, reviewIDs, endpointIDs []string) (*entity.DistributionResult, error) {
	start := time.Now()

	reviews, err := s.reviewRepo.GetByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviewsToDistribute
	}

	endpoints, err := s.endpointRepo.GetActiveByIDs(ctx, parseEndpointIDs(endpointIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoints: %w", err)
	}
	if len(endpoints) == 0 {
		return nil, ErrNoActiveEndpoints
	}

	payload, err := json.Marshal(distributionPayload{Reviews: reviews})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal distribution payload: %w", err)
	}

	// Fan-out: по горутине на площадку, ждем завершения всех
	results := make([]entity.EndpointResult, len(endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range endpoints {
		wg.Add(1)
		go func(i int, endpoint entity.Endpoint) {
			defer wg.Done()
			results[i] = s.postToEndpoint(ctx, endpoint, payload)
		}(i, endpoint)
	}
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		metrics.RecordEndpointResult(result.Endpoint, result.Success)
		if result.Success {
			succeeded++
		}
	}

	if succeeded > 0 {
		if _, err := s.reviewRepo.UpdateStatusBulk(ctx, reviewIDs, entity.ReviewStatusPublished); err != nil {
			return nil, fmt.Errorf("failed to mark reviews as published: %w", err)
		}

		metrics.ReviewsDistributed.Add(float64(len(reviews)))

		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate published reviews cache")
		}
	} else {
		logger.Warn().
			Int("endpoints", len(endpoints)).
			Msg("All distribution endpoints failed, reviews left unpublished")
	}

	metrics.DistributionDuration.Observe(time.Since(start).Seconds())

	s.publishEvent(ctx, entity.ReviewEvent{
		EventType:       entity.EventReviewsDistributed,
		Distributed:     len(reviews),
		Endpoints:       len(endpoints),
		FailedEndpoints: len(endpoints) - succeeded,
		Timestamp:       time.Now(),
	})

	return &entity.DistributionResult{
		Distributed: len(reviews),
		Endpoints:   len(endpoints),
		Results:     results,
	}, nil
}

// postToEndpoint выполняет один POST на площадку с собственным таймаутом
func (s *DistributionService) postToEndpoint(ctx context.Context, endpoint entity.Endpoint, payload []byte) entity.EndpointResult {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		return entity.EndpointResult{Endpoint: endpoint.Name, Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return entity.EndpointResult{Endpoint: endpoint.Name, Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.EndpointResult{
			Endpoint:   endpoint.Name,
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("endpoint returned status %d", resp.StatusCode),
		}
	}

	return entity.EndpointResult{
		Endpoint:   endpoint.Name,
		Success:    true,
		StatusCode: resp.StatusCode,
	}
}

func (s *DistributionService) publishEvent(ctx context.Context, event entity.ReviewEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal distribution event")
		return
	}

	if err := s.producer.PublishMessage(ctx, event.EventType, eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to publish distribution event")
	}
}

// parseEndpointIDs преобразует строковые ID в uuid, отбрасывая некорректные
// Некорректный ID эквивалентен отсутствующей площадке
func parseEndpointIDs(ids []string) []uuid.UUID {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			parsed = append(parsed, u)
		}
	}
	return parsed
}
