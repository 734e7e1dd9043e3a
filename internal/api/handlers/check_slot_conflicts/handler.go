package check_slot_conflicts

import (
	"errors"
	"net/http"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	checkSlotConflicts "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_slot_conflicts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgInvalidInput       = "некорректные данные проверки конфликтов"
)

type Handler struct {
	useCase CheckSlotConflictsUseCase
	logger  Logger
}

func NewHandler(useCase CheckSlotConflictsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slot-conflicts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckSlotConflictsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slot-conflicts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /slot-conflicts - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkSlotConflicts.ErrInvalidInput):
			h.logger.Warn("POST /slot-conflicts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /slot-conflicts - Failed to check conflicts: slots_count=%d, error=%v",
				len(req.ProposedSlots), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slot-conflicts - Conflicts checked: slots_count=%d, appointments_count=%d",
		len(req.ProposedSlots), len(req.ExistingAppointments))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
