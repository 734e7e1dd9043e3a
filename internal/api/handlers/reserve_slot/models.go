package reserve_slot

import (
	"time"

	reserveSlot "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
// SessionID опционален: если клиент не прислал свой, сервис выдает новый
type ReserveSlotRequest struct {
	SessionID  string `json:"sessionId,omitempty"`
	TTLMinutes int    `json:"ttlMinutes,omitempty"`
}

// ReserveSlotResponse HTTP response model
// SessionID клиент обязан предъявить при финализации бронирования
type ReserveSlotResponse struct {
	SlotID        int64  `json:"slotId"`
	SessionID     string `json:"sessionId"`
	ReservedUntil string `json:"reservedUntil"` // RFC3339
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *ReserveSlotResponse {
	return &ReserveSlotResponse{
		SlotID:        resp.SlotID,
		SessionID:     resp.SessionID,
		ReservedUntil: resp.ReservedUntil.Format(time.RFC3339),
	}
}
