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

// SyncService оркестрирует цикл Fetcher -> Merger -> (опционально) Distributor
// Запускается cron-планировщиком или вручную через POST /tasks/sync
type SyncService struct {
	source       ReviewSource
	ingestor     ReviewIngestor
	distributor  Distributor
	settingsRepo repository.SettingsRepository
	producer     infrastructure.MessagePublisher
}

// NewSyncService создает новый сервис синхронизации с внедрением зависимостей
func NewSyncService(
	source ReviewSource,
	ingestor ReviewIngestor,
	distributor Distributor,
	settingsRepo repository.SettingsRepository,
	producer infrastructure.MessagePublisher,
) *SyncService {
	return &SyncService{
		source:       source,
		ingestor:     ingestor,
		distributor:  distributor,
		settingsRepo: settingsRepo,
		producer:     producer,
	}
}

// Sync выполняет один цикл синхронизации.
// force=true пропускает проверку расписания (ручной запуск оператором).
// При ошибке выборки цикл прерывается без частичного сохранения.
func (s *SyncService) Sync(ctx context.Context, force bool) (*entity.SyncResult, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to load sync settings: %w", err)
		}
		// Настройки еще не сохранялись - работаем с умолчаниями,
		// как и GET /settings
		settings = defaultSettings()
	}

	if !force && !shouldSync(settings, time.Now()) {
		metrics.SyncRuns.WithLabelValues("skipped").Inc()
		return &entity.SyncResult{
			Message:     "Sync not due according to settings",
			SyncSkipped: true,
		}, nil
	}

	fetched, err := s.source.FetchReviews(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	merged, newReviews, err := s.ingestor.IngestReviews(ctx, fetched)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	autoDistributed := s.autoDistribute(ctx, settings, newReviews)

	if err := s.settingsRepo.UpdateLastSync(ctx, time.Now()); err != nil {
		logger.Warn().Err(err).Msg("Failed to record last sync time")
	}

	s.publishEvent(ctx, entity.ReviewEvent{
		EventType:    entity.EventReviewsSynced,
		TotalReviews: len(merged),
		NewReviews:   len(newReviews),
		Distributed:  autoDistributed,
		Timestamp:    time.Now(),
	})

	metrics.SyncRuns.WithLabelValues("success").Inc()

	logger.Info().
		Str("provider", s.source.Provider()).
		Int("total", len(merged)).
		Int("new", len(newReviews)).
		Int("auto_distributed", autoDistributed).
		Msg("Sync completed")

	return &entity.SyncResult{
		Message:         "Sync completed successfully",
		TotalReviews:    len(merged),
		NewReviews:      len(newReviews),
		AutoDistributed: autoDistributed,
	}, nil
}

// GetSettings возвращает настройки синхронизации, создавая значения
// по умолчанию при первом обращении
func (s *SyncService) GetSettings(ctx context.Context) (*entity.SyncSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to load sync settings: %w", err)
	}

	return settings, nil
}

// UpdateSettings применяет частичное обновление настроек
func (s *SyncService) UpdateSettings(ctx context.Context, req *entity.UpdateSettingsRequest) (*entity.SyncSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to load sync settings: %w", err)
		}
		settings = defaultSettings()
	}

	if req.GooglePlaceID != nil {
		settings.GooglePlaceID = *req.GooglePlaceID
	}
	if req.SyncFrequency != nil {
		settings.SyncFrequency = *req.SyncFrequency
	}
	if req.SyncDay != nil {
		settings.SyncDay = *req.SyncDay
	}
	if req.AutoDistribute != nil {
		settings.AutoDistribute = *req.AutoDistribute
	}
	if req.MinRating != nil {
		settings.MinRating = *req.MinRating
	}
	if req.DefaultEndpoints != nil {
		settings.DefaultEndpoints = req.DefaultEndpoints
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save sync settings: %w", err)
	}

	return settings, nil
}

// autoDistribute рассылает новые отзывы с достаточной оценкой на площадки
// по умолчанию. Ошибки дистрибуции не прерывают синхронизацию: отзывы уже
// сохранены, оператор может разослать их вручную.
func (s *SyncService) autoDistribute(ctx context.Context, settings *entity.SyncSettings, newReviews []entity.Review) int {
	if !settings.AutoDistribute || len(newReviews) == 0 || len(settings.DefaultEndpoints) == 0 {
		return 0
	}

	eligible := make([]string, 0, len(newReviews))
	for _, review := range newReviews {
		if review.Rating >= settings.MinRating {
			eligible = append(eligible, review.ID)
		}
	}

	if len(eligible) == 0 {
		return 0
	}

	result, err := s.distributor.Distribute(ctx, eligible, settings.DefaultEndpoints)
	if err != nil {
		logger.Warn().Err(err).Int("eligible", len(eligible)).Msg("Auto-distribution failed")
		return 0
	}

	return result.Distributed
}

// shouldSync решает, пора ли запускать синхронизацию по расписанию.
// Частота manual никогда не запускается автоматически. Для weekly и monthly
// дополнительно проверяется настроенный день, минимальный интервал сутки -
// защита от повторных запусков при почасовом внешнем триггере.
func shouldSync(settings *entity.SyncSettings, now time.Time) bool {
	if settings.SyncFrequency == entity.SyncFrequencyManual {
		return false
	}

	if settings.LastSyncAt == nil {
		return true
	}

	sinceLast := now.Sub(*settings.LastSyncAt)

	switch settings.SyncFrequency {
	case entity.SyncFrequencyDaily:
		return sinceLast >= 24*time.Hour
	case entity.SyncFrequencyWeekly:
		return int(now.Weekday()) == settings.SyncDay%7 && sinceLast >= 24*time.Hour
	case entity.SyncFrequencyMonthly:
		return now.Day() == settings.SyncDay && sinceLast >= 24*time.Hour
	default:
		return false
	}
}

func defaultSettings() *entity.SyncSettings {
	return &entity.SyncSettings{
		SyncFrequency:    entity.SyncFrequencyDaily,
		SyncDay:          1,
		AutoDistribute:   false,
		MinRating:        4,
		DefaultEndpoints: []string{},
	}
}

func (s *SyncService) publishEvent(ctx context.Context, event entity.ReviewEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal sync event")
		return
	}

	if err := s.producer.PublishMessage(ctx, event.EventType, eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to publish sync event")
	}
}
