package check_conflicts

import (
	"context"
	"fmt"
	"time"
)

// Request модель запроса проверки конфликтов инструктора
type Request struct {
	TenantID      int64
	StaffID       int64
	ProposedStart time.Time
	ProposedEnd   time.Time
}

// Response результат проверки
type Response struct {
	HasConflict   bool
	ConflictCount int
}

// UseCase use case прямой проверки пересечений с записями инструктора
// В отличие от travel-aware фильтра (check_slot_conflicts) здесь проверяется
// только календарь инструктора, без маршрутов клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Execute выполняет проверку конфликтов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckConflicts: validation failed: %v", err)
		return nil, err
	}

	appointments, err := uc.appointmentRepo.ListByStaffInRange(ctx, req.StaffID, req.ProposedStart, req.ProposedEnd)
	if err != nil {
		uc.logger.Error("CheckConflicts: failed to list appointments for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	count := 0
	for _, appt := range appointments {
		if appt.IsActive() && appt.Overlaps(req.ProposedStart, req.ProposedEnd) {
			count++
		}
	}

	uc.logger.Info("CheckConflicts: staff=%d, window=[%s, %s), conflicts=%d",
		req.StaffID, req.ProposedStart.Format(time.RFC3339), req.ProposedEnd.Format(time.RFC3339), count)

	return &Response{
		HasConflict:   count > 0,
		ConflictCount: count,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.ProposedStart.IsZero() || req.ProposedEnd.IsZero() {
		return fmt.Errorf("%w: proposed window is required", ErrInvalidInput)
	}
	if !req.ProposedEnd.After(req.ProposedStart) {
		return fmt.Errorf("%w: proposedEnd must be after proposedStart", ErrInvalidInput)
	}
	return nil
}
