package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/service"
)

type ReviewServiceInterface interface {
	ListReviews(ctx context.Context) ([]entity.Review, error)
	IngestReviews(ctx context.Context, incoming []entity.Review) ([]entity.Review, []entity.Review, error)
	UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) (*entity.Review, error)
	GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error)
}

type DistributionServiceInterface interface {
	Distribute(ctx context.Context, reviewIDs, endpointIDs []string) (*entity.DistributionResult, error)
}

type ReviewSourceInterface interface {
	FetchReviews(ctx context.Context) ([]entity.Review, error)
	Provider() string
}

type ReviewHandler struct {
	reviewService       ReviewServiceInterface
	distributionService DistributionServiceInterface
	source              ReviewSourceInterface
	validator           *validator.Validate
}

func NewReviewHandler(
	reviewService ReviewServiceInterface,
	distributionService DistributionServiceInterface,
	source ReviewSourceInterface,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService:       reviewService,
		distributionService: distributionService,
		source:              source,
		validator:           validator.New(),
	}
}

// ListReviews возвращает все сохраненные отзывы
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// IngestReviews принимает нормализованный пакет отзывов и сливает его
// с хранилищем. Любая другая форма тела отклоняется с 400.
func (h *ReviewHandler) IngestReviews(c *gin.Context) {
	var req entity.IngestReviewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviews data"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	incoming := make([]entity.Review, 0, len(req.Reviews))
	for _, r := range req.Reviews {
		incoming = append(incoming, entity.Review{
			ID:              r.ID,
			AuthorName:      r.AuthorName,
			Rating:          r.Rating,
			Text:            r.Text,
			Time:            r.Time,
			ProfilePhotoURL: r.ProfilePhotoURL,
		})
	}

	merged, newReviews, err := h.reviewService.IngestReviews(c.Request.Context(), incoming)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Reviews saved successfully",
		"reviews":    merged,
		"total":      len(merged),
		"newReviews": len(newReviews),
	})
}

// UpdateStatus меняет статус отзыва по решению оператора
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	var req entity.UpdateReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, err := h.reviewService.UpdateStatus(c.Request.Context(), req.ID, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review status"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// FetchReviews выполняет живую выборку из источника без записи в хранилище
// Форма ответа повторяет ответ Places details API
func (h *ReviewHandler) FetchReviews(c *gin.Context) {
	reviews, err := h.source.FetchReviews(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated with Google"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.FetchResponse{
		Result: entity.FetchResult{Reviews: reviews},
		Status: "OK",
	})
}

// GetPublished возвращает опубликованные отзывы для партнерского API
// Параметры limit и minRating необязательны, мусорные значения игнорируются
func (h *ReviewHandler) GetPublished(c *gin.Context) {
	minRating, _ := strconv.Atoi(c.Query("minRating"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	reviews, err := h.reviewService.GetPublished(c.Request.Context(), minRating, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get published reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.PublishedReviewsResponse{
		Total:   len(reviews),
		Reviews: reviews,
	})
}

// Distribute рассылает выбранные отзывы на выбранные площадки
func (h *ReviewHandler) Distribute(c *gin.Context) {
	var req entity.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review IDs and endpoint IDs are required"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	result, err := h.distributionService.Distribute(c.Request.Context(), req.ReviewIDs, req.EndpointIDs)
	if err != nil {
		if errors.Is(err, service.ErrNoReviewsToDistribute) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No reviews found to distribute"})
			return
		}
		if errors.Is(err, service.ErrNoActiveEndpoints) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active endpoints found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to distribute reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reviews distributed successfully",
		"distributed": result.Distributed,
		"endpoints":   result.Endpoints,
		"results":     result.Results,
	})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
