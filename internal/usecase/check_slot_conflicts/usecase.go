package check_slot_conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/ptr"
)

// UseCase travel-aware фильтр конфликтов
// Для каждого кандидата проверяет прямое пересечение с записями клиента
// и достаточность буфера на дорогу между точками с разными индексами
//
// Недоступность времени в пути НИКОГДА не отклоняет слот: проверка деградирует
// до "ограничение не применяется" с предупреждением в логе
type UseCase struct {
	itinerary  ItineraryRepository
	travelTime TravelTimeResolver
	logger     Logger
}

// itineraryPadding окрестность кандидатов, в которой записи клиента
// еще могут навязать travel-ограничение
const itineraryPadding = 24 * time.Hour

// NewUseCase создает новый экземпляр use case
func NewUseCase(itinerary ItineraryRepository, travelTime TravelTimeResolver, logger Logger) *UseCase {
	return &UseCase{
		itinerary:  itinerary,
		travelTime: travelTime,
		logger:     logger,
	}
}

// Execute выполняет batch-проверку кандидатов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckSlotConflicts: validation failed: %v", err)
		return nil, err
	}

	appointments := req.ExistingAppointments
	if len(appointments) == 0 && req.CustomerID > 0 {
		fetched, err := uc.fetchItinerary(ctx, req)
		if err != nil {
			return nil, err
		}
		appointments = fetched
	}

	results := make([]SlotConflictResult, 0, len(req.ProposedSlots))
	for _, slot := range req.ProposedSlots {
		results = append(results, uc.checkSlot(ctx, slot, appointments, req.ProposedPostalCode))
	}

	return &Response{Results: results}, nil
}

// fetchItinerary выбирает записи клиента в окрестности проверяемых кандидатов
func (uc *UseCase) fetchItinerary(ctx context.Context, req *Request) ([]domain.ItineraryAppointment, error) {
	from := req.ProposedSlots[0].StartTime
	to := req.ProposedSlots[0].EndTime
	for _, slot := range req.ProposedSlots[1:] {
		if slot.StartTime.Before(from) {
			from = slot.StartTime
		}
		if slot.EndTime.After(to) {
			to = slot.EndTime
		}
	}

	appointments, err := uc.itinerary.ListItineraryByCustomer(ctx,
		req.TenantID, req.CustomerID, from.Add(-itineraryPadding), to.Add(itineraryPadding))
	if err != nil {
		uc.logger.Error("CheckSlotConflicts: failed to load customer itinerary: tenant=%d, customer=%d: %v",
			req.TenantID, req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to load customer itinerary: %v", ErrInternal, err)
	}
	return appointments, nil
}

// checkSlot проверяет одного кандидата против всех записей клиента
func (uc *UseCase) checkSlot(
	ctx context.Context,
	slot ProposedSlot,
	appointments []domain.ItineraryAppointment,
	slotPostalCode string,
) SlotConflictResult {
	result := SlotConflictResult{SlotID: slot.SlotID}

	for _, appt := range appointments {
		// (a) Прямое пересечение интервалов - отклоняем сразу
		if appt.StartTime.Before(slot.EndTime) && appt.EndTime.After(slot.StartTime) {
			result.HasConflict = true
			result.Reason = ptr.Ptr(ReasonDirectConflict)
			return result
		}

		// (b) Буфер на дорогу - только между точками с разными индексами
		if appt.PostalCode == nil || *appt.PostalCode == slotPostalCode {
			continue
		}

		if !appt.EndTime.After(slot.StartTime) {
			// Запись предшествует слоту: от ее конца нужно успеть доехать
			minutes, err := uc.travelTime.Resolve(ctx, *appt.PostalCode, slotPostalCode, appt.EndTime)
			if err != nil {
				uc.logger.Warn("CheckSlotConflicts: travel time %s -> %s unavailable, constraint skipped: %v",
					*appt.PostalCode, slotPostalCode, err)
				continue
			}

			requiredFreeTime := appt.EndTime.Add(time.Duration(minutes) * time.Minute)
			if slot.StartTime.Before(requiredFreeTime) {
				result.HasConflict = true
				result.Reason = ptr.Ptr(ReasonTravelConflict)
				result.EarliestStart = &requiredFreeTime
				return result
			}
		} else {
			// Запись следует за слотом: после слота нужно успеть на нее
			minutes, err := uc.travelTime.Resolve(ctx, slotPostalCode, *appt.PostalCode, slot.EndTime)
			if err != nil {
				uc.logger.Warn("CheckSlotConflicts: travel time %s -> %s unavailable, constraint skipped: %v",
					slotPostalCode, *appt.PostalCode, err)
				continue
			}

			arrival := slot.EndTime.Add(time.Duration(minutes) * time.Minute)
			if arrival.After(appt.StartTime) {
				result.HasConflict = true
				result.Reason = ptr.Ptr(ReasonTravelConflict)
				return result
			}
		}
	}

	return result
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.ProposedSlots) == 0 {
		return fmt.Errorf("%w: proposedSlots is required", ErrInvalidInput)
	}
	for _, slot := range req.ProposedSlots {
		if slot.StartTime.IsZero() || slot.EndTime.IsZero() || !slot.EndTime.After(slot.StartTime) {
			return fmt.Errorf("%w: slot id=%d has invalid window", ErrInvalidInput, slot.SlotID)
		}
	}
	if req.CustomerID > 0 && req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID is required when customerID is set", ErrInvalidInput)
	}
	return nil
}
