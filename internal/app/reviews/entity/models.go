package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus представляет статус отзыва в жизненном цикле дистрибуции
type ReviewStatus string

const (
	ReviewStatusNew         ReviewStatus = "new"         // Получен из источника, решение оператора не принято
	ReviewStatusPublished   ReviewStatus = "published"   // Разослан на партнерские площадки
	ReviewStatusUnpublished ReviewStatus = "unpublished" // Скрыт оператором
)

// Review представляет отзыв, полученный из Google
// ID стабилен между выборками: для Places API это timestamp отзыва,
// для Business Profile API - reviewId провайдера
type Review struct {
	ID              string       `json:"id" bson:"_id"`
	AuthorName      string       `json:"author_name" bson:"author_name"`
	Rating          int          `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Text            string       `json:"text" bson:"text"`
	Time            int64        `json:"time" bson:"time"` // Epoch секунды из источника, неизменяемо
	ProfilePhotoURL string       `json:"profile_photo_url,omitempty" bson:"profile_photo_url,omitempty"`
	Status          ReviewStatus `json:"status" bson:"status"`       // Принадлежит оператору, fetch/merge не перезаписывает
	DateAdded       time.Time    `json:"dateAdded" bson:"date_added"` // Время первого попадания в хранилище, неизменяемо
}

// Endpoint представляет партнерскую площадку для дистрибуции отзывов
type Endpoint struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	URL        string    `json:"url" gorm:"type:varchar(2048);not null"`
	Active     bool      `json:"active" gorm:"not null;default:true"` // Неактивные площадки исключаются из дистрибуции
	APIKeyHash string    `json:"-" gorm:"type:varchar(255)"`          // bcrypt-хеш партнерского API ключа
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Endpoint) TableName() string {
	return "endpoints"
}

// SyncSettings представляет настройки периодической синхронизации
// Хранится единственной строкой (id = 1)
type SyncSettings struct {
	ID               int        `json:"-" gorm:"primaryKey"`
	GooglePlaceID    string     `json:"googlePlaceId" gorm:"type:varchar(255)"`
	SyncFrequency    string     `json:"syncFrequency" gorm:"type:varchar(20);not null;default:'daily'"` // daily, weekly, monthly, manual
	SyncDay          int        `json:"syncDay" gorm:"not null;default:1"`                               // День недели (weekly) или месяца (monthly)
	AutoDistribute   bool       `json:"autoDistribute" gorm:"not null;default:false"`
	MinRating        int        `json:"minRating" gorm:"not null;default:4"` // Минимальная оценка для авто-дистрибуции
	DefaultEndpoints []string   `json:"defaultEndpoints" gorm:"serializer:json;type:jsonb"`
	LastSyncAt       *time.Time `json:"lastSyncAt"`
}

// TableName указывает имя таблицы для GORM
func (SyncSettings) TableName() string {
	return "sync_settings"
}

// Частоты синхронизации
const (
	SyncFrequencyDaily   = "daily"
	SyncFrequencyWeekly  = "weekly"
	SyncFrequencyMonthly = "monthly"
	SyncFrequencyManual  = "manual"
)

// EndpointResult представляет исход отправки на одну площадку
type EndpointResult struct {
	Endpoint   string `json:"endpoint"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DistributionResult представляет агрегированный результат дистрибуции
// Не персистится, возвращается вызывающему
type DistributionResult struct {
	Distributed int              `json:"distributed"` // Количество разосланных отзывов
	Endpoints   int              `json:"endpoints"`   // Количество целевых площадок
	Results     []EndpointResult `json:"results"`
}

// SyncResult представляет итог одного цикла синхронизации
type SyncResult struct {
	Message         string `json:"message"`
	TotalReviews    int    `json:"totalReviews"`
	NewReviews      int    `json:"newReviews"`
	AutoDistributed int    `json:"autoDistributed"`
	SyncSkipped     bool   `json:"syncSkipped,omitempty"`
}

// GoogleTokens представляет OAuth токены Google для Business Profile API
type GoogleTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// ReviewEvent представляет событие пайплайна для Kafka
type ReviewEvent struct {
	EventType       string    `json:"event_type"` // REVIEWS_SYNCED, REVIEWS_DISTRIBUTED, REVIEW_STATUS_CHANGED
	ReviewID        string    `json:"review_id,omitempty"`
	Status          string    `json:"status,omitempty"`
	TotalReviews    int       `json:"total_reviews,omitempty"`
	NewReviews      int       `json:"new_reviews,omitempty"`
	Distributed     int       `json:"distributed,omitempty"`
	Endpoints       int       `json:"endpoints,omitempty"`
	FailedEndpoints int       `json:"failed_endpoints,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Типы событий пайплайна
const (
	EventReviewsSynced       = "REVIEWS_SYNCED"
	EventReviewsDistributed  = "REVIEWS_DISTRIBUTED"
	EventReviewStatusChanged = "REVIEW_STATUS_CHANGED"
)
