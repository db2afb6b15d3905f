package catalogservice

// Service модель услуги из CatalogService
type Service struct {
	ID              int64   `json:"id"`
	ProviderID      int64   `json:"provider_id"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	IsActive        bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
