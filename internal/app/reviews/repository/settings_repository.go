package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/app/reviews/entity"
)

var (
	ErrSettingsNotFound = errors.New("sync settings not found")
)

// Настройки синхронизации живут единственной строкой
const settingsRowID = 1

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository создает новый репозиторий настроек синхронизации
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get возвращает текущие настройки синхронизации
func (r *settingsRepository) Get(ctx context.Context) (*entity.SyncSettings, error) {
	var settings entity.SyncSettings
	result := r.db.WithContext(ctx).First(&settings, "id = ?", settingsRowID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, result.Error
	}

	return &settings, nil
}

// Save создает или перезаписывает единственную строку настроек
func (r *settingsRepository) Save(ctx context.Context, settings *entity.SyncSettings) error {
	settings.ID = settingsRowID
	result := r.db.WithContext(ctx).Save(settings)
	return result.Error
}

// UpdateLastSync фиксирует время последней успешной синхронизации
func (r *settingsRepository) UpdateLastSync(ctx context.Context, t time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entity.SyncSettings{}).
		Where("id = ?", settingsRowID).
		Update("last_sync_at", t)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
