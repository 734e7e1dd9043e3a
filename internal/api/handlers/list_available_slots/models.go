package list_available_slots

import (
	"time"

	listAvailableSlots "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/list_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TenantID int64           `json:"tenantId"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель доступного окна для бронирования
type AvailableSlot struct {
	ID              int64  `json:"id"`
	StaffID         int64  `json:"staffId"`
	LocationID      int64  `json:"locationId"`
	CategoryCode    string `json:"categoryCode"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:              slot.ID,
			StaffID:         slot.StaffID,
			LocationID:      slot.LocationID,
			CategoryCode:    slot.CategoryCode,
			StartTime:       slot.StartTime.Format(time.RFC3339),
			EndTime:         slot.EndTime.Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		TenantID: resp.TenantID,
		From:     resp.From.Format(time.RFC3339),
		To:       resp.To.Format(time.RFC3339),
		Slots:    slots,
	}
}
