package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики (MongoDB и PostgreSQL)
// =============================================================================

// DbQueryDuration - время выполнения запросов к хранилищам
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// DbErrors - счётчик ошибок хранилищ
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кэш опубликованных отзывов
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кэша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные события пайплайна
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики пайплайна отзывов
// =============================================================================

// ReviewsFetched - отзывы, полученные из внешнего источника
var ReviewsFetched = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_fetched_total",
		Help: "Total number of reviews fetched from the external source",
	},
	[]string{"provider"}, // places, business_profile
)

// ReviewsMergedNew - новые отзывы, добавленные merge-ем
var ReviewsMergedNew = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_merged_new_total",
		Help: "Total number of new reviews added by merge",
	},
)

// ReviewsDistributed - отзывы, разосланные на площадки
var ReviewsDistributed = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_distributed_total",
		Help: "Total number of reviews distributed to endpoints",
	},
)

// DistributionEndpointResults - исходы отправок по площадкам
var DistributionEndpointResults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "distribution_endpoint_results_total",
		Help: "Per-endpoint distribution outcomes",
	},
	[]string{"endpoint", "result"}, // result: success, failure
)

// DistributionDuration - длительность полного fan-out
var DistributionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "distribution_duration_seconds",
		Help:    "Duration of a full distribution fan-out",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
)

// SyncRuns - запуски цикла синхронизации
var SyncRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sync_runs_total",
		Help: "Total number of sync cycles",
	},
	[]string{"result"}, // success, skipped, failed
)
