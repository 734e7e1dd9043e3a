package pricing

// QuoteRequest запрос цены урока
type QuoteRequest struct {
	TenantID        int64  `json:"tenant_id"`
	CustomerID      int64  `json:"customer_id"`
	CategoryCode    string `json:"category_code"`
	StartTime       string `json:"start_time"` // RFC3339
	DurationMinutes int    `json:"duration_minutes"`
}

// Quote цена урока для конкретного клиента и слота
// Ядро использует цену как черный ящик - скидки и кредиты считает pricing-сервис
type Quote struct {
	AmountRappen int64  `json:"amount_rappen"`
	Currency     string `json:"currency"`
}

// ErrorResponse модель ошибки от pricing-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
