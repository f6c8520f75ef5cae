package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListReviews(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) IngestReviews(ctx context.Context, incoming []entity.Review) ([]entity.Review, []entity.Review, error) {
	args := m.Called(ctx, incoming)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]entity.Review), args.Get(1).([]entity.Review), args.Error(2)
}

func (m *MockReviewService) UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) (*entity.Review, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetPublished(ctx context.Context, minRating, limit int) ([]entity.Review, error) {
	args := m.Called(ctx, minRating, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

type MockDistributionService struct {
	mock.Mock
}

func (m *MockDistributionService) Distribute(ctx context.Context, reviewIDs, endpointIDs []string) (*entity.DistributionResult, error) {
	args := m.Called(ctx, reviewIDs, endpointIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DistributionResult), args.Error(1)
}

type MockReviewSourceHandler struct {
	mock.Mock
}

func (m *MockReviewSourceHandler) FetchReviews(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewSourceHandler) Provider() string {
	return "mock"
}

func setupReviewRouter(reviewSvc *MockReviewService, distSvc *MockDistributionService, source *MockReviewSourceHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewReviewHandler(reviewSvc, distSvc, source)

	router.GET("/reviews", h.ListReviews)
	router.POST("/reviews", h.IngestReviews)
	router.PUT("/reviews", h.UpdateStatus)
	router.GET("/reviews/fetch", h.FetchReviews)
	router.GET("/reviews/published", h.GetPublished)
	router.POST("/reviews/distribute", h.Distribute)
	return router
}

func TestListReviewsHandler_Success(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	reviews := []entity.Review{
		{ID: "1", AuthorName: "Alice", Rating: 5, Status: entity.ReviewStatusNew},
	}
	reviewSvc.On("ListReviews", mock.Anything).Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.ReviewListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
}

func TestIngestReviewsHandler_Success(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	merged := []entity.Review{{ID: "1", Rating: 5, Status: entity.ReviewStatusNew}}
	reviewSvc.On("IngestReviews", mock.Anything, mock.AnythingOfType("[]entity.Review")).Return(merged, merged, nil)

	body, _ := json.Marshal(entity.IngestReviewsRequest{
		Reviews: []entity.IncomingReview{
			{ID: "1", AuthorName: "Alice", Rating: 5, Time: 1700000000},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Ответ содержит итоговый набор после merge
	var response struct {
		Reviews    []entity.Review `json:"reviews"`
		Total      int             `json:"total"`
		NewReviews int             `json:"newReviews"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Reviews, 1)
	assert.Equal(t, "1", response.Reviews[0].ID)
	assert.Equal(t, 1, response.Total)
	reviewSvc.AssertExpectations(t)
}

func TestIngestReviewsHandler_UnrecognizedShape(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	// Голый массив вместо {reviews: [...]}
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(`[{"id": "1", "rating": 5}]`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reviewSvc.AssertNotCalled(t, "IngestReviews")
}

func TestIngestReviewsHandler_EmptyReviews(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(`{"reviews": []}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusHandler_Success(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	review := &entity.Review{ID: "1", Rating: 5, Status: entity.ReviewStatusPublished}
	reviewSvc.On("UpdateStatus", mock.Anything, "1", entity.ReviewStatusPublished).Return(review, nil)

	body, _ := json.Marshal(entity.UpdateReviewStatusRequest{ID: "1", Status: entity.ReviewStatusPublished})
	req, _ := http.NewRequest(http.MethodPut, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusHandler_NotFound(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	reviewSvc.On("UpdateStatus", mock.Anything, "missing", entity.ReviewStatusPublished).Return(nil, service.ErrReviewNotFound)

	body, _ := json.Marshal(entity.UpdateReviewStatusRequest{ID: "missing", Status: entity.ReviewStatusPublished})
	req, _ := http.NewRequest(http.MethodPut, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusHandler_InvalidStatus(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	req, _ := http.NewRequest(http.MethodPut, "/reviews", bytes.NewBufferString(`{"id": "1", "status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reviewSvc.AssertNotCalled(t, "UpdateStatus")
}

func TestFetchReviewsHandler_Success(t *testing.T) {
	source := new(MockReviewSourceHandler)
	router := setupReviewRouter(new(MockReviewService), new(MockDistributionService), source)

	reviews := []entity.Review{{ID: "1", Rating: 5}}
	source.On("FetchReviews", mock.Anything).Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/fetch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.FetchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "OK", response.Status)
	assert.Len(t, response.Result.Reviews, 1)
}

func TestFetchReviewsHandler_NotAuthenticated(t *testing.T) {
	source := new(MockReviewSourceHandler)
	router := setupReviewRouter(new(MockReviewService), new(MockDistributionService), source)

	source.On("FetchReviews", mock.Anything).Return(nil, service.ErrNotAuthenticated)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/fetch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFetchReviewsHandler_UpstreamError(t *testing.T) {
	source := new(MockReviewSourceHandler)
	router := setupReviewRouter(new(MockReviewService), new(MockDistributionService), source)

	source.On("FetchReviews", mock.Anything).Return(nil, errors.New("upstream down"))

	req, _ := http.NewRequest(http.MethodGet, "/reviews/fetch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPublishedHandler_WithFilters(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	reviews := []entity.Review{{ID: "1", Rating: 5, Status: entity.ReviewStatusPublished}}
	reviewSvc.On("GetPublished", mock.Anything, 4, 10).Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/published?minRating=4&limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.PublishedReviewsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
	reviewSvc.AssertExpectations(t)
}

func TestGetPublishedHandler_GarbageParamsIgnored(t *testing.T) {
	reviewSvc := new(MockReviewService)
	router := setupReviewRouter(reviewSvc, new(MockDistributionService), new(MockReviewSourceHandler))

	reviewSvc.On("GetPublished", mock.Anything, 0, 0).Return([]entity.Review{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/published?minRating=abc&limit=xyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDistributeHandler_Success(t *testing.T) {
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	result := &entity.DistributionResult{
		Distributed: 2,
		Endpoints:   1,
		Results:     []entity.EndpointResult{{Endpoint: "Partner A", Success: true, StatusCode: 200}},
	}
	distSvc.On("Distribute", mock.Anything, []string{"1", "2"}, []string{"ep-1"}).Return(result, nil)

	body, _ := json.Marshal(entity.DistributeRequest{ReviewIDs: []string{"1", "2"}, EndpointIDs: []string{"ep-1"}})
	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDistributeHandler_NoReviewsFound(t *testing.T) {
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	distSvc.On("Distribute", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNoReviewsToDistribute)

	body, _ := json.Marshal(entity.DistributeRequest{ReviewIDs: []string{"missing"}, EndpointIDs: []string{"ep-1"}})
	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No reviews found to distribute")
}

func TestDistributeHandler_NoActiveEndpoints(t *testing.T) {
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	distSvc.On("Distribute", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNoActiveEndpoints)

	body, _ := json.Marshal(entity.DistributeRequest{ReviewIDs: []string{"1"}, EndpointIDs: []string{"inactive"}})
	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No active endpoints found")
}

func TestDistributeHandler_EmptyReviewIDs(t *testing.T) {
	// Пустой список отзывов доходит до сервиса и отвечается 404, а не 400
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	distSvc.On("Distribute", mock.Anything, []string{}, []string{"ep-1"}).Return(nil, service.ErrNoReviewsToDistribute)

	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBufferString(`{"reviewIds": [], "endpointIds": ["ep-1"]}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No reviews found to distribute")
	distSvc.AssertExpectations(t)
}

func TestDistributeHandler_EmptyEndpointIDs(t *testing.T) {
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	distSvc.On("Distribute", mock.Anything, []string{"1"}, []string{}).Return(nil, service.ErrNoActiveEndpoints)

	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBufferString(`{"reviewIds": ["1"], "endpointIds": []}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No active endpoints found")
	distSvc.AssertExpectations(t)
}

func TestDistributeHandler_MissingIDs(t *testing.T) {
	distSvc := new(MockDistributionService)
	router := setupReviewRouter(new(MockReviewService), distSvc, new(MockReviewSourceHandler))

	req, _ := http.NewRequest(http.MethodPost, "/reviews/distribute", bytes.NewBufferString(`{"reviewIds": []}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	distSvc.AssertNotCalled(t, "Distribute")
}
