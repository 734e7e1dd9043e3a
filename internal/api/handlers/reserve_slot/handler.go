package reserve_slot

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	"github.com/Kilchi555/driving-team-app-sub004/internal/api/middleware"
	reserveSlot "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidTTL         = "некорректный TTL резервирования"
	msgSlotNotAvailable   = "слот уже занят, выберите другой"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/reserve
// Тело запроса опционально: без sessionId сервис выдает новый
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/reserve - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req ReserveSlotRequest
	if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		h.logger.Warn("POST /slots/{id}/reserve - Invalid request body: %v", decodeErr)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := h.useCase.Execute(r.Context(), &reserveSlot.Request{
		SlotID:     slotID,
		SessionID:  sessionID,
		TTLMinutes: req.TTLMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotNotAvailable):
			userID, _ := middleware.UserIDFromContext(r.Context())
			h.logger.Info("POST /slots/{id}/reserve - Slot not available: slot_id=%d, session_id=%s, user_id=%s",
				slotID, sessionID, userID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /slots/{id}/reserve - Invalid input: slot_id=%d, error=%v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidTTL)

		default:
			h.logger.Error("POST /slots/{id}/reserve - Failed to reserve slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	h.logger.Info("POST /slots/{id}/reserve - Slot reserved successfully: slot_id=%d, session_id=%s, user_id=%s",
		slotID, sessionID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
