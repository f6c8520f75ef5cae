package config

import (
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки сервиса сбора и дистрибуции отзывов
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Google       GoogleConfig
	Sync         SyncConfig
	Distribution DistributionConfig
	API          APIConfig
	JWT          JWTConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

// MongoDBConfig - настройки хранилища отзывов
type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

// DatabaseConfig - настройки PostgreSQL для площадок и настроек синхронизации
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // disable/require/verify-full
}

// RedisConfig - настройки Redis для кэша опубликованных отзывов и OAuth токенов
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration // TTL кэша опубликованных отзывов
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий пайплайна отзывов
}

// GoogleConfig - учетные данные источника отзывов
// Идентификаторы аккаунта и локации - конфигурация, не логика
type GoogleConfig struct {
	Provider     string // places или business_profile
	PlacesAPIKey string // API ключ для Places details API
	PlaceID      string // Place ID для Places details API
	ClientID     string // OAuth client ID
	ClientSecret string // OAuth client secret
	RedirectURI  string // OAuth redirect URI
	AccountID    string // Business Profile account ID
	LocationID   string // Business Profile location ID
}

// SyncConfig - расписание периодической синхронизации
type SyncConfig struct {
	CronSchedule string // Cron-выражение внешнего триггера (по умолчанию раз в час)
	RunOnStart   bool   // Выполнить синхронизацию при старте сервиса
}

// DistributionConfig - параметры исходящих запросов дистрибуции
type DistributionConfig struct {
	TimeoutSec int // Таймаут одного POST на площадку
}

// APIConfig - мастер-ключ партнерского API
// Партнерские ключи площадок хранятся в БД хешированными
type APIConfig struct {
	MasterKey string
}

type JWTConfig struct {
	Secret     string        // Секретный ключ подписи сессионных токенов
	SessionTTL time.Duration // Максимальное время жизни сессии дашборда
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "reviewhub"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "reviewhub"),
			Password: getEnv("POSTGRES_PASSWORD", "reviewhub"),
			DBName:   getEnv("POSTGRES_DB", "reviewhub"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: time.Duration(getEnvInt("REDIS_CACHE_TTL_SEC", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		Google: GoogleConfig{
			Provider:     getEnv("GOOGLE_PROVIDER", "places"),
			PlacesAPIKey: getEnv("GOOGLE_PLACES_API_KEY", ""),
			PlaceID:      getEnv("GOOGLE_PLACE_ID", ""),
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8084/auth/callback"),
			AccountID:    getEnv("GOOGLE_ACCOUNT_ID", ""),
			LocationID:   getEnv("GOOGLE_LOCATION_ID", ""),
		},
		Sync: SyncConfig{
			CronSchedule: getEnv("SYNC_CRON_SCHEDULE", "0 * * * *"),
			RunOnStart:   getEnvBool("SYNC_RUN_ON_START", false),
		},
		Distribution: DistributionConfig{
			TimeoutSec: getEnvInt("DISTRIBUTION_TIMEOUT_SEC", 10),
		},
		API: APIConfig{
			MasterKey: getEnv("API_MASTER_KEY", ""),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// DSN собирает строку подключения PostgreSQL для GORM
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
