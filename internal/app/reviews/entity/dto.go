package entity

// IncomingReview - нормализованная форма отзыва во входящем POST /reviews
// Статус и dateAdded входящего игнорируются: ими владеет merge
type IncomingReview struct {
	ID              string `json:"id" validate:"required"`
	AuthorName      string `json:"author_name" validate:"required"`
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	Text            string `json:"text"`
	Time            int64  `json:"time" validate:"required"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// IngestReviewsRequest - единственный принимаемый формат тела POST /reviews
// Другие формы (голый массив, {result:{reviews:[]}}) отклоняются с 400
type IngestReviewsRequest struct {
	Reviews []IncomingReview `json:"reviews" validate:"required,min=1,dive"`
}

// UpdateReviewStatusRequest - запрос на смену статуса отзыва оператором
type UpdateReviewStatusRequest struct {
	ID     string       `json:"id" validate:"required"`
	Status ReviewStatus `json:"status" validate:"required,oneof=new published unpublished"`
}

// DistributeRequest - запрос на дистрибуцию выбранных отзывов
// Пустые списки проходят валидацию: сервис отвечает на них 404
type DistributeRequest struct {
	ReviewIDs   []string `json:"reviewIds" validate:"required"`
	EndpointIDs []string `json:"endpointIds" validate:"required"`
}

// CreateEndpointRequest - запрос на создание площадки
type CreateEndpointRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	URL    string `json:"url" validate:"required,url"`
	Active *bool  `json:"active"` // По умолчанию true
}

// UpdateEndpointRequest - запрос на обновление площадки
// Обновляются только переданные поля
type UpdateEndpointRequest struct {
	ID     string  `json:"id" validate:"required"`
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	URL    *string `json:"url" validate:"omitempty,url"`
	Active *bool   `json:"active"`
}

// DeleteEndpointRequest - запрос на удаление площадки
type DeleteEndpointRequest struct {
	ID string `json:"id" validate:"required"`
}

// UpdateSettingsRequest - запрос на изменение настроек синхронизации
type UpdateSettingsRequest struct {
	GooglePlaceID    *string  `json:"googlePlaceId"`
	SyncFrequency    *string  `json:"syncFrequency" validate:"omitempty,oneof=daily weekly monthly manual"`
	SyncDay          *int     `json:"syncDay" validate:"omitempty,min=0,max=31"`
	AutoDistribute   *bool    `json:"autoDistribute"`
	MinRating        *int     `json:"minRating" validate:"omitempty,min=1,max=5"`
	DefaultEndpoints []string `json:"defaultEndpoints"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// FetchResponse - ответ живой выборки GET /reviews/fetch
// Форма повторяет ответ Google Places details, которого ждут потребители
type FetchResponse struct {
	Result FetchResult `json:"result"`
	Status string      `json:"status"`
}

type FetchResult struct {
	Reviews []Review `json:"reviews"`
}

// PublishedReviewsResponse - ответ партнерского API GET /reviews/published
type PublishedReviewsResponse struct {
	Total   int      `json:"total"`
	Reviews []Review `json:"reviews"`
}

// CreateEndpointResponse возвращает созданную площадку и её партнерский API ключ
// Ключ отдается ровно один раз, дальше хранится только bcrypt-хеш
type CreateEndpointResponse struct {
	Endpoint Endpoint `json:"endpoint"`
	APIKey   string   `json:"apiKey"`
}
