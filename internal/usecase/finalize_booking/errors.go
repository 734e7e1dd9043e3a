package finalize_booking

import "errors"

var (
	// ErrValidation ошибка валидации входных данных
	ErrValidation = errors.New("validation error")
	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slot not found")
	// ErrReservationExpired резервация истекла или принадлежит другой сессии
	ErrReservationExpired = errors.New("reservation expired or lost")
	// ErrSlotLinkMismatch запись создана, но ни один слот не был привязан
	ErrSlotLinkMismatch = errors.New("no slots linked to appointment")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)

const (
	// MsgInvalidPaymentID сообщение о некорректном payment_id
	MsgInvalidPaymentID = "payment_id is required"
	// MsgInvalidSlotID сообщение о некорректном slot_id
	MsgInvalidSlotID = "slot_id must be positive"
	// MsgInvalidSessionID сообщение о некорректном session_id
	MsgInvalidSessionID = "session_id is required"
	// MsgInvalidCustomerID сообщение о некорректном customer_id
	MsgInvalidCustomerID = "customer_id must be positive"
)
