package generate_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// UseCase use case генерации слотов доступности
// Запускается по расписанию (ночной прогон по всем тенантам) и по требованию
// из админки; повторный запуск над тем же диапазоном идемпотентен
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	timeProvider    TimeProvider
	tenantBudget    time.Duration
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если сбор метрик отключен
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	tenantBudget time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		timeProvider:    &RealTimeProvider{},
		tenantBudget:    tenantBudget,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет генерацию слотов
// Ошибка одного тенанта логируется и не прерывает обработку остальных:
// тенант помечается failed в результате и будет обработан следующим запуском
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.DaysAhead < 0 || req.DaysAhead > domain.MaxHorizonDays {
		return nil, fmt.Errorf("%w: daysAhead must be in [0, %d]", ErrInvalidInput, domain.MaxHorizonDays)
	}

	days := req.DaysAhead
	if days == 0 {
		days = domain.DefaultHorizonDays
	}

	now := uc.timeProvider.Now()

	// Определяем список тенантов
	var tenantIDs []int64
	if req.TenantID != nil {
		tenantIDs = []int64{*req.TenantID}
	} else {
		ids, err := uc.scheduleRepo.ListTenantIDs(ctx)
		if err != nil {
			uc.logger.Error("GenerateAvailability: failed to list tenants: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNoTenants, err)
		}
		tenantIDs = ids
	}

	uc.logger.Info("GenerateAvailability: starting run for %d tenant(s), horizon=%d days", len(tenantIDs), days)

	resp := &Response{Tenants: make([]TenantResult, 0, len(tenantIDs))}

	for _, tenantID := range tenantIDs {
		result := uc.generateTenant(ctx, tenantID, req.StaffID, days, now)

		resp.Generated += result.Generated
		resp.Retracted += result.Retracted
		resp.Tenants = append(resp.Tenants, result)

		if result.Failed {
			uc.logger.Error("GenerateAvailability: tenant=%d failed: %s", tenantID, result.Error)
		} else {
			uc.logger.Info("GenerateAvailability: tenant=%d done, generated=%d, retracted=%d",
				tenantID, result.Generated, result.Retracted)
		}
	}

	uc.metrics.AddGeneratedSlots(resp.Generated)
	uc.metrics.AddRetractedSlots(resp.Retracted)

	uc.logger.Info("GenerateAvailability: run finished, generated=%d, retracted=%d", resp.Generated, resp.Retracted)
	return resp, nil
}

// generateTenant обрабатывает одного тенанта в рамках его бюджета времени
func (uc *UseCase) generateTenant(ctx context.Context, tenantID int64, staffID *int64, days int, now time.Time) TenantResult {
	result := TenantResult{TenantID: tenantID}

	tenantCtx := ctx
	if uc.tenantBudget > 0 {
		var cancel context.CancelFunc
		tenantCtx, cancel = context.WithTimeout(ctx, uc.tenantBudget)
		defer cancel()
	}

	categories, err := uc.scheduleRepo.ListCategories(tenantCtx, tenantID)
	if err != nil {
		result.Failed = true
		result.Error = fmt.Sprintf("list categories: %v", err)
		return result
	}
	if len(categories) == 0 {
		uc.logger.Warn("GenerateAvailability: tenant=%d has no lesson categories, nothing to generate", tenantID)
		return result
	}

	staff, err := uc.scheduleRepo.ListActiveStaff(tenantCtx, tenantID, staffID)
	if err != nil {
		result.Failed = true
		result.Error = fmt.Sprintf("list staff: %v", err)
		return result
	}

	horizonEnd := now.AddDate(0, 0, days)

	for _, member := range staff {
		generated, retracted, err := uc.generateStaff(tenantCtx, tenantID, member, categories, now, days, horizonEnd)
		if err != nil {
			// Ошибка одного инструктора не прерывает тенанта
			uc.logger.Error("GenerateAvailability: tenant=%d, staff=%d failed: %v", tenantID, member.ID, err)
			continue
		}
		result.Generated += generated
		result.Retracted += retracted
	}

	// Истекший бюджет тенанта помечает его failed для повтора следующим запуском
	if err := tenantCtx.Err(); err != nil {
		result.Failed = true
		result.Error = fmt.Sprintf("tenant budget exceeded: %v", err)
	}

	return result
}

// generateStaff генерирует и отзывает слоты одного инструктора
func (uc *UseCase) generateStaff(
	ctx context.Context,
	tenantID int64,
	staff *domain.StaffMember,
	categories []*domain.LessonCategory,
	now time.Time,
	days int,
	horizonEnd time.Time,
) (int, int, error) {
	blocks, err := uc.scheduleRepo.ListWorkingHourBlocks(ctx, staff.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list working hour blocks: %w", err)
	}
	if len(blocks) == 0 {
		return 0, 0, nil
	}

	locationIDs, err := uc.scheduleRepo.ListStaffLocationIDs(ctx, staff.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list staff locations: %w", err)
	}
	allowed := make(map[int64]bool, len(locationIDs))
	for _, id := range locationIDs {
		allowed[id] = true
	}

	appointments, err := uc.appointmentRepo.ListByStaffInRange(ctx, staff.ID, now, horizonEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("list appointments: %w", err)
	}

	minStart := now.Add(time.Duration(staff.MinimumBookingLeadTimeHours) * time.Hour)

	candidates, err := buildCandidates(
		tenantID, staff, blocks, allowed, categories, appointments, now, days, minStart,
		func(blockID, locationID int64) {
			uc.logger.Warn("GenerateAvailability: staff=%d block=%d references location=%d not assigned via location_staff, skipping",
				staff.ID, blockID, locationID)
		},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("build candidates: %w", err)
	}

	generated, err := uc.slotRepo.BatchUpsert(ctx, candidates)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert slots: %w", err)
	}

	// Отзываем устаревшие окна: попавшие под минимальный срок бронирования
	// и пересекающиеся с записями, появившимися после прошлого запуска
	retracted, err := uc.slotRepo.RetractBefore(ctx, staff.ID, minStart)
	if err != nil {
		return generated, 0, fmt.Errorf("retract below lead time: %w", err)
	}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		n, err := uc.slotRepo.RetractOverlapping(ctx, staff.ID, appt.StartTime, appt.EndTime)
		if err != nil {
			return generated, retracted, fmt.Errorf("retract overlapping appointment id=%d: %w", appt.ID, err)
		}
		retracted += n
	}

	return generated, retracted, nil
}
