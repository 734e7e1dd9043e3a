package generate_availability

import (
	"errors"
	"io"
	"net/http"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	generateAvailability "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/generate_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры генерации"
	msgNoTenants          = "не удалось получить список тенантов"
)

type Handler struct {
	useCase GenerateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GenerateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/v1/availability/generate
// Ручной запуск генерации вне расписания, тело запроса опционально
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /availability/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, generateAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability/generate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, generateAvailability.ErrNoTenants):
			h.logger.Error("POST /availability/generate - Failed to list tenants: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgNoTenants)

		default:
			h.logger.Error("POST /availability/generate - Generation failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/generate - Generation completed: tenants=%d, generated=%d, retracted=%d",
		len(result.Tenants), result.Generated, result.Retracted)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
