package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/repository"
	"reviewhub/pkg/metrics"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated with google")
)

const defaultBusinessProfileBaseURL = "https://mybusiness.googleapis.com/v4"

// BusinessProfileClient получает отзывы через Business Profile API v4
// Требует OAuth токен оператора из TokenRepository
// Идентификаторы аккаунта и локации приходят из конфигурации
type BusinessProfileClient struct {
	baseURL    string
	accountID  string
	locationID string
	tokenRepo  repository.TokenRepository
	httpClient *http.Client
}

// NewBusinessProfileClient создает новый клиент Business Profile API
func NewBusinessProfileClient(accountID, locationID string, tokenRepo repository.TokenRepository, timeoutSec int) *BusinessProfileClient {
	return &BusinessProfileClient{
		baseURL:    defaultBusinessProfileBaseURL,
		accountID:  accountID,
		locationID: locationID,
		tokenRepo:  tokenRepo,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

func (c *BusinessProfileClient) Provider() string {
	return "business_profile"
}

type businessProfileResponse struct {
	Reviews []businessProfileReview `json:"reviews"`
}

type businessProfileReview struct {
	ReviewID string `json:"reviewId"`
	Reviewer struct {
		DisplayName     string `json:"displayName"`
		ProfilePhotoURL string `json:"profilePhotoUrl"`
	} `json:"reviewer"`
	StarRating string    `json:"starRating"` // ONE..FIVE
	Comment    string    `json:"comment"`
	CreateTime time.Time `json:"createTime"`
}

// FetchReviews получает отзывы локации, новые первыми
func (c *BusinessProfileClient) FetchReviews(ctx context.Context) ([]entity.Review, error) {
	if c.accountID == "" || c.locationID == "" {
		return nil, ErrMissingCredentials
	}

	tokens, err := c.tokenRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrTokensNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get google tokens: %w", err)
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/locations/%s/reviews?pageSize=50&orderBy=updateTime%%20desc",
		c.baseURL, c.accountID, c.locationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var apiResponse businessProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}

	now := time.Now()
	reviews := make([]entity.Review, 0, len(apiResponse.Reviews))
	for _, raw := range apiResponse.Reviews {
		epoch := raw.CreateTime.Unix()

		id := raw.ReviewID
		if id == "" {
			id = strconv.FormatInt(epoch, 10)
		}

		reviews = append(reviews, entity.Review{
			ID:              id,
			AuthorName:      raw.Reviewer.DisplayName,
			Rating:          starRatingToInt(raw.StarRating),
			Text:            raw.Comment,
			Time:            epoch,
			ProfilePhotoURL: raw.Reviewer.ProfilePhotoURL,
			Status:          entity.ReviewStatusNew,
			DateAdded:       now,
		})
	}

	metrics.ReviewsFetched.WithLabelValues(c.Provider()).Add(float64(len(reviews)))

	return reviews, nil
}

// starRatingToInt переводит enum Business Profile в оценку 1-5
func starRatingToInt(rating string) int {
	switch rating {
	case "ONE":
		return 1
	case "TWO":
		return 2
	case "THREE":
		return 3
	case "FOUR":
		return 4
	case "FIVE":
		return 5
	default:
		return 0
	}
}
