package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/app/reviews/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrEndpointNotFound = errors.New("endpoint not found")
)

type endpointRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewEndpointRepository создает новый репозиторий площадок дистрибуции
func NewEndpointRepository(db *gorm.DB) EndpointRepository {
	return &endpointRepository{db: db}
}

// List возвращает все площадки, новые первыми
func (r *endpointRepository) List(ctx context.Context) ([]entity.Endpoint, error) {
	var endpoints []entity.Endpoint
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&endpoints)

	if result.Error != nil {
		return nil, result.Error
	}

	return endpoints, nil
}

// GetByID получает площадку по ID
func (r *endpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Endpoint, error) {
	var endpoint entity.Endpoint
	result := r.db.WithContext(ctx).First(&endpoint, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEndpointNotFound
		}
		return nil, result.Error
	}

	return &endpoint, nil
}

// GetActiveByIDs возвращает только активные площадки из перечисленных
// Неактивные и неизвестные ID молча пропускаются
func (r *endpointRepository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Endpoint, error) {
	if len(ids) == 0 {
		return []entity.Endpoint{}, nil
	}

	var endpoints []entity.Endpoint
	result := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&endpoints)

	if result.Error != nil {
		return nil, result.Error
	}

	return endpoints, nil
}

// GetActive возвращает все активные площадки
// Используется при проверке партнерских API ключей
func (r *endpointRepository) GetActive(ctx context.Context) ([]entity.Endpoint, error) {
	var endpoints []entity.Endpoint
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&endpoints)

	if result.Error != nil {
		return nil, result.Error
	}

	return endpoints, nil
}

// Create создает новую площадку
func (r *endpointRepository) Create(ctx context.Context, endpoint *entity.Endpoint) error {
	result := r.db.WithContext(ctx).Create(endpoint)
	return result.Error
}

// Update обновляет площадку
func (r *endpointRepository) Update(ctx context.Context, endpoint *entity.Endpoint) error {
	result := r.db.WithContext(ctx).Model(endpoint).
		Where("id = ?", endpoint.ID).
		Updates(map[string]interface{}{
			"name":   endpoint.Name,
			"url":    endpoint.URL,
			"active": endpoint.Active,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrEndpointNotFound
	}

	return nil
}

// Delete удаляет площадку
func (r *endpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Endpoint{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrEndpointNotFound
	}

	return nil
}
