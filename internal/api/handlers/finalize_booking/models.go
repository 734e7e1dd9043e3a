package finalize_booking

import (
	"time"

	finalizeBooking "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/finalize_booking"
)

// PaymentEventRequest событие успешного платежа от payment-провайдера
type PaymentEventRequest struct {
	PaymentID       string  `json:"paymentId"`
	SlotID          int64   `json:"slotId"`
	SessionID       string  `json:"sessionId"`
	TenantID        int64   `json:"tenantId"`
	CustomerID      int64   `json:"customerId"`
	AppointmentType string  `json:"appointmentType"`
	Notes           *string `json:"notes,omitempty"`
}

// FinalizeBookingResponse HTTP response model
type FinalizeBookingResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	SlotID        int64  `json:"slotId"`
	StaffID       int64  `json:"staffId"`
	StartTime     string `json:"startTime"` // RFC3339
	EndTime       string `json:"endTime"`
	PriceRappen   int64  `json:"priceRappen"`
	Status        string `json:"status"`
	AlreadyExists bool   `json:"alreadyExists"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PaymentEventRequest) ToUseCaseRequest() *finalizeBooking.Request {
	return &finalizeBooking.Request{
		PaymentID:       r.PaymentID,
		SlotID:          r.SlotID,
		SessionID:       r.SessionID,
		TenantID:        r.TenantID,
		CustomerID:      r.CustomerID,
		AppointmentType: r.AppointmentType,
		Notes:           r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *finalizeBooking.Response) *FinalizeBookingResponse {
	return &FinalizeBookingResponse{
		AppointmentID: resp.AppointmentID,
		SlotID:        resp.SlotID,
		StaffID:       resp.StaffID,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		EndTime:       resp.EndTime.Format(time.RFC3339),
		PriceRappen:   resp.PriceRappen,
		Status:        resp.Status,
		AlreadyExists: resp.AlreadyExists,
	}
}
