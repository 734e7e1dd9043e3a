package generate_availability

import (
	generateAvailability "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/generate_availability"
)

// GenerateRequest HTTP request model
// Все поля опциональны: пустое тело запускает генерацию по всем тенантам
type GenerateRequest struct {
	TenantID  *int64 `json:"tenantId,omitempty"`
	StaffID   *int64 `json:"staffId,omitempty"`
	DaysAhead int    `json:"daysAhead,omitempty"`
}

// GenerateResponse HTTP response model
type GenerateResponse struct {
	Generated int            `json:"generated"`
	Retracted int            `json:"retracted"`
	Tenants   []TenantResult `json:"tenants"`
}

// TenantResult результат генерации по одному тенанту
type TenantResult struct {
	TenantID  int64  `json:"tenantId"`
	Generated int    `json:"generated"`
	Retracted int    `json:"retracted"`
	Failed    bool   `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateRequest) ToUseCaseRequest() *generateAvailability.Request {
	return &generateAvailability.Request{
		TenantID:  r.TenantID,
		StaffID:   r.StaffID,
		DaysAhead: r.DaysAhead,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateAvailability.Response) *GenerateResponse {
	tenants := make([]TenantResult, len(resp.Tenants))
	for i, t := range resp.Tenants {
		tenants[i] = TenantResult{
			TenantID:  t.TenantID,
			Generated: t.Generated,
			Retracted: t.Retracted,
			Failed:    t.Failed,
			Error:     t.Error,
		}
	}

	return &GenerateResponse{
		Generated: resp.Generated,
		Retracted: resp.Retracted,
		Tenants:   tenants,
	}
}
