package list_available_slots

import (
	"context"
	"fmt"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// UseCase use case получения доступных слотов
// Read-path: возвращает только is_available=true окна с концом в будущем;
// отсутствие данных - это пустой список, а не ошибка
type UseCase struct {
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// Прошедшая часть диапазона не имеет смысла - поджимаем начало к "сейчас"
	from := req.From
	if from.Before(now) {
		from = now
	}

	filter := domain.SlotFilter{
		TenantID:        req.TenantID,
		StaffID:         req.StaffID,
		LocationID:      req.LocationID,
		CategoryCode:    req.CategoryCode,
		DurationMinutes: req.DurationMinutes,
		From:            from,
		To:              req.To,
	}

	slots, err := uc.slotRepo.ListAvailable(ctx, filter, now)
	if err != nil {
		uc.logger.Error("ListAvailableSlots: failed to list slots for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			ID:              s.ID,
			StaffID:         s.StaffID,
			LocationID:      s.LocationID,
			CategoryCode:    s.CategoryCode,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes,
		}
	}

	uc.logger.Info("ListAvailableSlots: tenant=%d, returned %d slots", req.TenantID, len(result))

	return &Response{
		TenantID: req.TenantID,
		From:     from,
		To:       req.To,
		Slots:    result,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: date range is required", ErrInvalidInput)
	}
	if !req.To.After(req.From) {
		return fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}
	if req.DurationMinutes != nil &&
		(*req.DurationMinutes < domain.MinLessonDurationMinutes || *req.DurationMinutes > domain.MaxLessonDurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinLessonDurationMinutes, domain.MaxLessonDurationMinutes)
	}
	return nil
}
