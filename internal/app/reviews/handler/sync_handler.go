package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/service"
)

type SyncServiceInterface interface {
	Sync(ctx context.Context, force bool) (*entity.SyncResult, error)
	GetSettings(ctx context.Context) (*entity.SyncSettings, error)
	UpdateSettings(ctx context.Context, req *entity.UpdateSettingsRequest) (*entity.SyncSettings, error)
}

type SyncHandler struct {
	syncService SyncServiceInterface
	validator   *validator.Validate
}

func NewSyncHandler(syncService SyncServiceInterface) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		validator:   validator.New(),
	}
}

// TriggerSync запускает цикл синхронизации
// force=true в query пропускает проверку расписания
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	force := c.Query("force") == "true"

	result, err := h.syncService.Sync(c.Request.Context(), force)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated with Google"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSettings возвращает настройки синхронизации
func (h *SyncHandler) GetSettings(c *gin.Context) {
	settings, err := h.syncService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings применяет частичное обновление настроек синхронизации
func (h *SyncHandler) UpdateSettings(c *gin.Context) {
	var req entity.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	settings, err := h.syncService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
