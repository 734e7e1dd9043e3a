package finalize_booking

import (
	"errors"
	"net/http"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	finalizeBooking "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/finalize_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEvent       = "некорректное событие платежа"
	msgSlotNotFound       = "слот не найден"
	msgReservationExpired = "резервация слота истекла, требуется возврат платежа"
)

type Handler struct {
	useCase FinalizeBookingUseCase
	logger  Logger
}

func NewHandler(useCase FinalizeBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/v1/payments/events
//
// Контракт с payment-провайдером: 2xx - событие обработано (включая повтор),
// 410 - терминальный отказ, провайдеру нужно вернуть платеж, не повторять,
// 5xx - транзиентный сбой, провайдер повторит доставку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, finalizeBooking.ErrValidation):
			h.logger.Warn("POST /payments/events - Invalid event: payment_id=%s, error=%v", req.PaymentID, err)
			handlers.RespondBadRequest(w, msgInvalidEvent)

		case errors.Is(err, finalizeBooking.ErrSlotNotFound):
			h.logger.Warn("POST /payments/events - Slot not found: payment_id=%s, slot_id=%d", req.PaymentID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, finalizeBooking.ErrReservationExpired):
			h.logger.Warn("POST /payments/events - Reservation expired: payment_id=%s, slot_id=%d, session_id=%s",
				req.PaymentID, req.SlotID, req.SessionID)
			handlers.RespondError(w, http.StatusGone, msgReservationExpired)

		default:
			h.logger.Error("POST /payments/events - Failed to finalize booking: payment_id=%s, slot_id=%d, error=%v",
				req.PaymentID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyExists {
		status = http.StatusOK
	}

	h.logger.Info("POST /payments/events - Booking finalized: payment_id=%s, appointment_id=%d, already_exists=%t",
		req.PaymentID, result.AppointmentID, result.AlreadyExists)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
