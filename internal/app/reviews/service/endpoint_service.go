package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrEndpointNotFound = errors.New("endpoint not found")
	ErrInvalidAPIKey    = errors.New("invalid or missing API key")
)

// EndpointService обрабатывает CRUD площадок дистрибуции
// и проверку партнерских API ключей
type EndpointService struct {
	endpointRepo repository.EndpointRepository
	masterAPIKey string
}

// NewEndpointService создает новый сервис площадок
// masterAPIKey - необязательный мастер-ключ партнерского API из конфигурации
func NewEndpointService(endpointRepo repository.EndpointRepository, masterAPIKey string) *EndpointService {
	return &EndpointService{
		endpointRepo: endpointRepo,
		masterAPIKey: masterAPIKey,
	}
}

// ListEndpoints возвращает все площадки
func (s *EndpointService) ListEndpoints(ctx context.Context) ([]entity.Endpoint, error) {
	endpoints, err := s.endpointRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list endpoints: %w", err)
	}

	return endpoints, nil
}

// CreateEndpoint создает площадку и генерирует ей партнерский API ключ
// Ключ возвращается ровно один раз, в хранилище попадает только bcrypt-хеш
func (s *EndpointService) CreateEndpoint(ctx context.Context, req *entity.CreateEndpointRequest) (*entity.Endpoint, string, error) {
	apiKey := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash API key: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	endpoint := &entity.Endpoint{
		ID:         uuid.New(),
		Name:       req.Name,
		URL:        req.URL,
		Active:     active,
		APIKeyHash: string(hash),
	}

	if err := s.endpointRepo.Create(ctx, endpoint); err != nil {
		return nil, "", fmt.Errorf("failed to create endpoint: %w", err)
	}

	return endpoint, apiKey, nil
}

// UpdateEndpoint обновляет только переданные поля площадки
func (s *EndpointService) UpdateEndpoint(ctx context.Context, req *entity.UpdateEndpointRequest) (*entity.Endpoint, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrEndpointNotFound
	}

	endpoint, err := s.endpointRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEndpointNotFound) {
			return nil, ErrEndpointNotFound
		}
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}

	if req.Name != nil {
		endpoint.Name = *req.Name
	}
	if req.URL != nil {
		endpoint.URL = *req.URL
	}
	if req.Active != nil {
		endpoint.Active = *req.Active
	}

	if err := s.endpointRepo.Update(ctx, endpoint); err != nil {
		if errors.Is(err, repository.ErrEndpointNotFound) {
			return nil, ErrEndpointNotFound
		}
		return nil, fmt.Errorf("failed to update endpoint: %w", err)
	}

	return endpoint, nil
}

// DeleteEndpoint удаляет площадку
func (s *EndpointService) DeleteEndpoint(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrEndpointNotFound
	}

	if err := s.endpointRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEndpointNotFound) {
			return ErrEndpointNotFound
		}
		return fmt.Errorf("failed to delete endpoint: %w", err)
	}

	return nil
}

// ValidateAPIKey проверяет партнерский API ключ для GET /reviews/published.
// Принимается мастер-ключ из конфигурации либо ключ любой активной площадки.
func (s *EndpointService) ValidateAPIKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return ErrInvalidAPIKey
	}

	if s.masterAPIKey != "" &&
		subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.masterAPIKey)) == 1 {
		return nil
	}

	endpoints, err := s.endpointRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active endpoints: %w", err)
	}

	for _, endpoint := range endpoints {
		if endpoint.APIKeyHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(endpoint.APIKeyHash), []byte(apiKey)) == nil {
			return nil
		}
	}

	return ErrInvalidAPIKey
}
