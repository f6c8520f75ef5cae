package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/repository"
	"reviewhub/pkg/logger"
)

const (
	stateCookieName   = "oauth_state"
	sessionCookieName = "session"
	stateCookieMaxAge = 600 // 10 минут на прохождение экрана согласия
)

type OAuthClientInterface interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*entity.GoogleTokens, error)
}

// AuthHandler обрабатывает OAuth вход оператора через Google
// После обмена кода токены уходят в Redis, оператору выдается
// сессионная JWT кука для дашборда
type AuthHandler struct {
	oauthClient OAuthClientInterface
	tokenRepo   repository.TokenRepository
	jwtSecret   string
	sessionTTL  time.Duration
}

func NewAuthHandler(oauthClient OAuthClientInterface, tokenRepo repository.TokenRepository, jwtSecret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		oauthClient: oauthClient,
		tokenRepo:   tokenRepo,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
	}
}

// Login перенаправляет оператора на экран согласия Google
// state сохраняется в куке для защиты от CSRF
func (h *AuthHandler) Login(c *gin.Context) {
	state := uuid.NewString()

	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthClient.AuthURL(state))
}

// Callback завершает OAuth flow: проверяет state, обменивает код на токены
// и выдает сессионную куку
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google authorization denied: " + errParam})
		return
	}

	state := c.Query("state")
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != stateCookie {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code is required"})
		return
	}

	tokens, err := h.oauthClient.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.Error().Err(err).Msg("OAuth code exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	if err := h.tokenRepo.Save(c.Request.Context(), tokens); err != nil {
		logger.Error().Err(err).Msg("Failed to save google tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tokens"})
		return
	}

	sessionToken, expiresAt, err := h.generateSessionToken(tokens.Expiry)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)
	// Кука живет ровно столько же, сколько подписанный в ней токен
	c.SetCookie(sessionCookieName, sessionToken, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// Status сообщает, привязан ли аккаунт Google
func (h *AuthHandler) Status(c *gin.Context) {
	_, err := h.tokenRepo.Get(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"authenticated": err == nil,
	})
}

// Logout удаляет сохраненные токены и гасит сессионную куку
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.tokenRepo.Delete(c.Request.Context()); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete google tokens")
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// generateSessionToken подписывает сессионный JWT и возвращает момент
// его истечения. Сессия не живет дольше access токена Google и
// настроенного TTL.
func (h *AuthHandler) generateSessionToken(tokenExpiry time.Time) (string, time.Time, error) {
	now := time.Now()

	expiresAt := now.Add(h.sessionTTL)
	if tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}

	claims := jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	return signed, expiresAt, err
}
