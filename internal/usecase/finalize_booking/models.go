package finalize_booking

import "time"

// Request событие успешного платежа от payment-провайдера
type Request struct {
	PaymentID       string
	SlotID          int64
	SessionID       string
	TenantID        int64
	CustomerID      int64
	AppointmentType string
	Notes           *string
}

// Response результат финализации бронирования
type Response struct {
	AppointmentID int64
	SlotID        int64
	StaffID       int64
	StartTime     time.Time
	EndTime       time.Time
	PriceRappen   int64
	Status        string
	AlreadyExists bool
}
