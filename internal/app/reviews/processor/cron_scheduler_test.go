package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/app/reviews/entity"
)

// MockSyncRunner мок для SyncRunner
type MockSyncRunner struct {
	mock.Mock
}

func (m *MockSyncRunner) Sync(ctx context.Context, force bool) (*entity.SyncResult, error) {
	args := m.Called(ctx, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncResult), args.Error(1)
}

func TestNewCronScheduler(t *testing.T) {
	mockSvc := new(MockSyncRunner)

	scheduler := NewCronScheduler(mockSvc)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockSvc, scheduler.syncSvc)
}

func TestCronScheduler_Start_Success(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	err := scheduler.Start(context.Background(), "*/5 * * * *", false)

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
	// runOnStart=false: до срабатывания cron вызовов нет
	mockSvc.AssertNotCalled(t, "Sync")
}

func TestCronScheduler_Start_RunOnStart(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("Sync", mock.Anything, false).Return(&entity.SyncResult{Message: "Sync completed successfully"}, nil)

	err := scheduler.Start(context.Background(), "*/5 * * * *", true)

	assert.NoError(t, err)
	scheduler.Stop()
	mockSvc.AssertExpectations(t)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	err := scheduler.Start(context.Background(), "invalid cron expression", false)

	assert.Error(t, err)
}

func TestCronScheduler_Start_InitialSyncError_ContinuesWork(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("Sync", mock.Anything, false).Return(nil, errors.New("upstream unavailable"))

	err := scheduler.Start(context.Background(), "*/5 * * * *", true)

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_JobExecution(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("Sync", mock.Anything, false).Return(&entity.SyncResult{SyncSkipped: true}, nil)

	err := scheduler.Start(context.Background(), "@every 100ms", false)
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	// Ошибки синхронизации не останавливают планировщик
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("Sync", mock.Anything, false).Return(nil, errors.New("sync error"))

	err := scheduler.Start(context.Background(), "@every 100ms", false)
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

func TestCronScheduler_Stop(t *testing.T) {
	mockSvc := new(MockSyncRunner)
	scheduler := NewCronScheduler(mockSvc)

	err := scheduler.Start(context.Background(), "0 * * * *", false)
	assert.NoError(t, err)

	scheduler.Stop()

	assert.NotNil(t, scheduler.cron)
}
