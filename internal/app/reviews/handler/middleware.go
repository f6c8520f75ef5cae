package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware проверяет сессионную JWT куку оператора для Gin
type SessionMiddleware struct {
	jwtSecret string
}

// NewSessionMiddleware создает новый middleware сессии дашборда
func NewSessionMiddleware(jwtSecret string) *SessionMiddleware {
	return &SessionMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate проверяет сессионную куку и пропускает запрос дальше
func (m *SessionMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(sessionCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.jwtSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// APIKeyValidator - часть EndpointService, нужная партнерскому middleware
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) error
}

// APIKeyMiddleware проверяет партнерский API ключ в заголовке x-api-key
type APIKeyMiddleware struct {
	validator APIKeyValidator
}

// NewAPIKeyMiddleware создает новый middleware партнерского API
func NewAPIKeyMiddleware(validator APIKeyValidator) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		validator: validator,
	}
}

// Authenticate проверяет ключ мастер-ключом либо ключом активной площадки
func (m *APIKeyMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			c.Abort()
			return
		}

		if err := m.validator.ValidateAPIKey(c.Request.Context(), apiKey); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
