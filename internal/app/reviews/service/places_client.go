package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/pkg/metrics"
)

var (
	// Ошибки источника отзывов для обработки в handlers
	ErrMissingCredentials = errors.New("missing review source credentials")
	ErrUpstream           = errors.New("review source request failed")
)

const defaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"

// PlacesClient получает отзывы через Google Places details API
// Отвечает только за HTTP запрос и нормализацию, дедупликация - задача merge
type PlacesClient struct {
	baseURL    string
	apiKey     string
	placeID    string
	httpClient *http.Client
}

// NewPlacesClient создает новый клиент Places API
func NewPlacesClient(apiKey, placeID string, timeoutSec int) *PlacesClient {
	return &PlacesClient{
		baseURL: defaultPlacesBaseURL,
		apiKey:  apiKey,
		placeID: placeID,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

func (c *PlacesClient) Provider() string {
	return "places"
}

// placesResponse - ответ Places details API с единственным нужным полем
type placesResponse struct {
	Result struct {
		Reviews []placesReview `json:"reviews"`
	} `json:"result"`
	Status string `json:"status"`
}

type placesReview struct {
	AuthorName      string `json:"author_name"`
	Rating          int    `json:"rating"`
	Text            string `json:"text"`
	Time            int64  `json:"time"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// FetchReviews получает отзывы места и нормализует их во внутреннюю форму
// ID отзыва - строковый timestamp источника, стабильный между выборками
func (c *PlacesClient) FetchReviews(ctx context.Context) ([]entity.Review, error) {
	if c.apiKey == "" || c.placeID == "" {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("place_id", c.placeID)
	params.Set("fields", "reviews")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var apiResponse placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}

	if apiResponse.Status != "" && apiResponse.Status != "OK" {
		return nil, fmt.Errorf("%w: places status %s", ErrUpstream, apiResponse.Status)
	}

	now := time.Now()
	reviews := make([]entity.Review, 0, len(apiResponse.Result.Reviews))
	for _, raw := range apiResponse.Result.Reviews {
		reviews = append(reviews, entity.Review{
			ID:              strconv.FormatInt(raw.Time, 10),
			AuthorName:      raw.AuthorName,
			Rating:          raw.Rating,
			Text:            raw.Text,
			Time:            raw.Time,
			ProfilePhotoURL: raw.ProfilePhotoURL,
			Status:          entity.ReviewStatusNew,
			DateAdded:       now,
		})
	}

	metrics.ReviewsFetched.WithLabelValues(c.Provider()).Add(float64(len(reviews)))

	return reviews, nil
}
