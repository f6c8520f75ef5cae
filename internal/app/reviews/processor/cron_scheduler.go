package processor

import (
	"context"

	"github.com/robfig/cron/v3"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/pkg/logger"
)

// SyncRunner - часть SyncService, нужная планировщику
type SyncRunner interface {
	Sync(ctx context.Context, force bool) (*entity.SyncResult, error)
}

// CronScheduler периодически запускает цикл синхронизации отзывов
// Проверку расписания из настроек делает сам SyncService,
// cron лишь задает частоту проверок
type CronScheduler struct {
	cron    *cron.Cron
	syncSvc SyncRunner
}

func NewCronScheduler(syncSvc SyncRunner) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(),
		syncSvc: syncSvc,
	}
}

// Start регистрирует задачу и запускает планировщик
// runOnStart=true дополнительно выполняет проверку сразу при старте
func (s *CronScheduler) Start(ctx context.Context, schedule string, runOnStart bool) error {
	logger.Info().Str("schedule", schedule).Msg("Starting sync scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	if runOnStart {
		s.runSync(ctx)
	}

	return nil
}

func (s *CronScheduler) runSync(ctx context.Context) {
	result, err := s.syncSvc.Sync(ctx, false)
	if err != nil {
		logger.Error().Err(err).Msg("Scheduled sync failed")
		return
	}

	if result.SyncSkipped {
		logger.Debug().Msg("Scheduled sync skipped: not due")
		return
	}

	logger.Info().
		Int("total", result.TotalReviews).
		Int("new", result.NewReviews).
		Int("auto_distributed", result.AutoDistributed).
		Msg("Scheduled sync completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping sync scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Sync scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
