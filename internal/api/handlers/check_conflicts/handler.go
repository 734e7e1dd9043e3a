package check_conflicts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	checkConflicts "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_conflicts"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidStaffID  = "некорректный ID инструктора"
	msgMissingStart    = "параметр proposedStart обязателен"
	msgMissingEnd      = "параметр proposedEnd обязателен"
	msgInvalidTime     = "некорректный формат времени, ожидается RFC3339"
	msgInvalidWindow   = "некорректное проверяемое окно"
)

type Handler struct {
	useCase CheckConflictsUseCase
	logger  Logger
}

func NewHandler(useCase CheckConflictsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/staff/{staffId}/conflicts
// Query params: proposedStart (required, RFC3339), proposedEnd (required, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()

	startStr := query.Get("proposedStart")
	if startStr == "" {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Missing proposedStart: staff_id=%d", staffID)
		handlers.RespondBadRequest(w, msgMissingStart)
		return
	}
	proposedStart, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Invalid proposedStart: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	endStr := query.Get("proposedEnd")
	if endStr == "" {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Missing proposedEnd: staff_id=%d", staffID)
		handlers.RespondBadRequest(w, msgMissingEnd)
		return
	}
	proposedEnd, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Invalid proposedEnd: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkConflicts.Request{
		TenantID:      tenantID,
		StaffID:       staffID,
		ProposedStart: proposedStart,
		ProposedEnd:   proposedEnd,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkConflicts.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/staff/{id}/conflicts - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /tenants/{id}/staff/{id}/conflicts - Failed to check conflicts: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/staff/{id}/conflicts - Conflicts checked: staff_id=%d, has_conflict=%t",
		staffID, result.HasConflict)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
