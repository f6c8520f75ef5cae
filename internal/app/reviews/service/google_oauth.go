package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reviewhub/internal/app/reviews/entity"
)

const (
	defaultGoogleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultGoogleTokenURL = "https://oauth2.googleapis.com/token"

	businessManageScope = "https://www.googleapis.com/auth/business.manage"
)

// GoogleOAuthClient выполняет обмен authorization code на токены
// Сервис выступает credential supplier для Business Profile клиента
type GoogleOAuthClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	tokenURL     string
	httpClient   *http.Client
}

// NewGoogleOAuthClient создает новый OAuth клиент Google
func NewGoogleOAuthClient(clientID, clientSecret, redirectURI string) *GoogleOAuthClient {
	return &GoogleOAuthClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authURL:      defaultGoogleAuthURL,
		tokenURL:     defaultGoogleTokenURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthURL собирает URL экрана согласия Google
// access_type=offline и prompt=consent нужны для получения refresh токена
func (c *GoogleOAuthClient) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", businessManageScope)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", state)

	return c.authURL + "?" + params.Encode()
}

// tokenResponse - ответ token endpoint Google
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ExchangeCode обменивает authorization code на связку токенов
func (c *GoogleOAuthClient) ExchangeCode(ctx context.Context, code string) (*entity.GoogleTokens, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: token exchange status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token response: %v", ErrUpstream, err)
	}

	return &entity.GoogleTokens{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
