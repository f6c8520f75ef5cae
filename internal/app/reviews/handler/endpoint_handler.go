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

type EndpointServiceInterface interface {
	ListEndpoints(ctx context.Context) ([]entity.Endpoint, error)
	CreateEndpoint(ctx context.Context, req *entity.CreateEndpointRequest) (*entity.Endpoint, string, error)
	UpdateEndpoint(ctx context.Context, req *entity.UpdateEndpointRequest) (*entity.Endpoint, error)
	DeleteEndpoint(ctx context.Context, id string) error
}

type EndpointHandler struct {
	endpointService EndpointServiceInterface
	validator       *validator.Validate
}

func NewEndpointHandler(endpointService EndpointServiceInterface) *EndpointHandler {
	return &EndpointHandler{
		endpointService: endpointService,
		validator:       validator.New(),
	}
}

// ListEndpoints возвращает все площадки дистрибуции
func (h *EndpointHandler) ListEndpoints(c *gin.Context) {
	endpoints, err := h.endpointService.ListEndpoints(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get endpoints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoints": endpoints,
		"total":     len(endpoints),
	})
}

// CreateEndpoint создает площадку
// Партнерский API ключ возвращается в ответе ровно один раз
func (h *EndpointHandler) CreateEndpoint(c *gin.Context) {
	var req entity.CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and URL are required"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	endpoint, apiKey, err := h.endpointService.CreateEndpoint(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create endpoint"})
		return
	}

	c.JSON(http.StatusCreated, entity.CreateEndpointResponse{
		Endpoint: *endpoint,
		APIKey:   apiKey,
	})
}

// UpdateEndpoint обновляет только переданные поля площадки
func (h *EndpointHandler) UpdateEndpoint(c *gin.Context) {
	var req entity.UpdateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	endpoint, err := h.endpointService.UpdateEndpoint(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEndpointNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update endpoint"})
		return
	}

	c.JSON(http.StatusOK, endpoint)
}

// DeleteEndpoint удаляет площадку
func (h *EndpointHandler) DeleteEndpoint(c *gin.Context) {
	var req entity.DeleteEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Endpoint ID is required"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	if err := h.endpointService.DeleteEndpoint(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, service.ErrEndpointNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete endpoint"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Endpoint deleted successfully",
	})
}
