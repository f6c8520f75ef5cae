package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GinPrometheusMiddleware возвращает Gin middleware,
// который собирает метрики http_requests_total и http_request_duration_seconds
func GinPrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Пропускаем сами /metrics и /health
		if c.Request.URL.Path == "/metrics" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()

		HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
		defer HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := normalizePath(c.FullPath(), c.Request.URL.Path)

		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, path).Observe(duration)
	}
}

// normalizePath уменьшает кардинальность метрик: берет шаблон маршрута,
// когда gin его знает, иначе обрезанный реальный путь
func normalizePath(routePath, rawPath string) string {
	if routePath != "" {
		return routePath
	}
	if len(rawPath) > 100 {
		rawPath = rawPath[:100]
	}
	return rawPath
}
