package list_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Kilchi555/driving-team-app-sub004/internal/api/handlers"
	listAvailableSlots "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/list_available_slots"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidStaffID  = "некорректный ID инструктора"
	msgInvalidLocation = "некорректный ID точки встречи"
	msgInvalidDuration = "некорректная длительность урока"
	msgMissingFrom     = "параметр from обязателен"
	msgMissingTo       = "параметр to обязателен"
	msgInvalidTime     = "некорректный формат времени, ожидается RFC3339"
	msgInvalidRange    = "некорректный диапазон времени"
)

type Handler struct {
	useCase ListAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ListAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots
// Query params: from (required, RFC3339), to (required, RFC3339),
// staffId, locationId, categoryCode, durationMinutes (optional filters)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	query := r.URL.Query()

	fromStr := query.Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing from: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	toStr := query.Get("to")
	if toStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing to: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgMissingTo)
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	useCaseReq := &listAvailableSlots.Request{
		TenantID: tenantID,
		From:     from,
		To:       to,
	}

	if staffIDStr := query.Get("staffId"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		useCaseReq.StaffID = &staffID
	}

	if locationIDStr := query.Get("locationId"); locationIDStr != "" {
		locationID, err := strconv.ParseInt(locationIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid location ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocation)
			return
		}
		useCaseReq.LocationID = &locationID
	}

	if categoryCode := query.Get("categoryCode"); categoryCode != "" {
		useCaseReq.CategoryCode = &categoryCode
	}

	if durationStr := query.Get("durationMinutes"); durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		useCaseReq.DurationMinutes = &duration
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, listAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /tenants/{id}/available-slots - Failed to list slots: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/available-slots - Slots retrieved successfully: tenant_id=%d, slots_count=%d",
		tenantID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
