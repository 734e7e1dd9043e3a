package finalize_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	apptRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/appointment"
	slotRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/slot"
	"github.com/Kilchi555/driving-team-app-sub004/internal/integrations/pricing"
)

// Результаты финализации для метрик
const (
	outcomeCreated   = "created"
	outcomeDuplicate = "duplicate"
	outcomeExpired   = "expired"
	outcomeFailed    = "failed"
)

// UseCase создание подтвержденной записи на урок из оплаченного резервирования
//
// Платеж уже списан, поэтому единственный терминальный отказ - истекшая или
// перехваченная резервация (ErrReservationExpired). Все остальные сбои
// транзиентны: payment-провайдер повторит доставку события, а уникальность
// payment_id гарантирует, что повтор не создаст дубликат записи
type UseCase struct {
	slotRepo  SlotRepository
	apptRepo  AppointmentRepository
	pricing   PricingClient
	txManager TransactionManager
	metrics   Metrics
	time      TimeProvider
	logger    Logger
}

// NewUseCase создает новый UseCase для финализации бронирования
func NewUseCase(
	slots SlotRepository,
	appts AppointmentRepository,
	pricingClient PricingClient,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		slotRepo:  slots,
		apptRepo:  appts,
		pricing:   pricingClient,
		txManager: txManager,
		metrics:   metrics,
		time:      timeProvider,
		logger:    logger,
	}
}

// Execute обрабатывает событие успешного платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	// Быстрый путь идемпотентности: событие уже обработано
	existing, err := uc.apptRepo.GetByPaymentID(ctx, req.PaymentID)
	if err != nil && !errors.Is(err, apptRepo.ErrAppointmentNotFound) {
		return nil, fmt.Errorf("%w: Execute - failed to check payment: %v", ErrInternal, err)
	}
	if existing != nil {
		uc.logger.Info("finalize_booking: duplicate payment event, payment_id=%s, appointment_id=%d",
			req.PaymentID, existing.ID)
		uc.metrics.IncFinalization(outcomeDuplicate)
		return responseFrom(existing, req.SlotID, true), nil
	}

	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.metrics.IncFinalization(outcomeFailed)
			return nil, fmt.Errorf("%w: slot %d", ErrSlotNotFound, req.SlotID)
		}
		return nil, fmt.Errorf("%w: Execute - failed to get slot: %v", ErrInternal, err)
	}

	now := uc.time.Now()
	if slot.IsConsumed() || !slot.IsReservedBy(req.SessionID, now) {
		uc.logger.Warn("finalize_booking: reservation invalid, slot_id=%d, session_id=%s, payment_id=%s",
			req.SlotID, req.SessionID, req.PaymentID)
		uc.metrics.IncFinalization(outcomeExpired)
		return nil, fmt.Errorf("%w: slot %d, session %s", ErrReservationExpired, req.SlotID, req.SessionID)
	}

	price := uc.resolvePrice(ctx, req, slot)

	appt := &domain.Appointment{
		TenantID:        slot.TenantID,
		StaffID:         slot.StaffID,
		LocationID:      slot.LocationID,
		CustomerID:      req.CustomerID,
		AppointmentType: req.AppointmentType,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		Status:          domain.StatusScheduled,
		PaymentID:       req.PaymentID,
		PriceRappen:     price,
		Notes:           req.Notes,
	}

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = uc.apptRepo.Create(txCtx, appt)
		if txErr != nil {
			return txErr
		}

		// Вся длительность урока блокируется одним вызовом: при длительности,
		// кратной нескольким окнам генерации, привязываются все пересекающиеся слоты
		linked, txErr := uc.slotRepo.LinkAppointment(
			txCtx, slot.StaffID, slot.LocationID, slot.StartTime, slot.EndTime, created.ID)
		if txErr != nil {
			return txErr
		}
		if linked == 0 {
			return fmt.Errorf("%w: appointment %d, slot %d", ErrSlotLinkMismatch, created.ID, slot.ID)
		}
		return nil
	})
	if err != nil {
		// Параллельная доставка того же события: запись уже создана конкурентом
		if errors.Is(err, apptRepo.ErrDuplicatePayment) {
			existing, getErr := uc.apptRepo.GetByPaymentID(ctx, req.PaymentID)
			if getErr != nil {
				return nil, fmt.Errorf("%w: Execute - failed to get appointment after duplicate: %v", ErrInternal, getErr)
			}
			uc.metrics.IncFinalization(outcomeDuplicate)
			return responseFrom(existing, req.SlotID, true), nil
		}
		if errors.Is(err, ErrSlotLinkMismatch) {
			uc.logger.Error("finalize_booking: appointment rolled back, no slots linked, payment_id=%s, slot_id=%d",
				req.PaymentID, req.SlotID)
			uc.metrics.IncSlotLinkAlert()
			uc.metrics.IncFinalization(outcomeFailed)
			return nil, err
		}
		uc.metrics.IncFinalization(outcomeFailed)
		return nil, fmt.Errorf("%w: Execute - transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("finalize_booking: appointment created, appointment_id=%d, payment_id=%s, slot_id=%d, price_rappen=%d",
		created.ID, req.PaymentID, req.SlotID, created.PriceRappen)
	uc.metrics.IncFinalization(outcomeCreated)

	return responseFrom(created, req.SlotID, false), nil
}

// resolvePrice запрашивает цену у pricing-сервиса
// Недоступность сервиса не блокирует финализацию: платеж уже прошел,
// запись создается с нулевой ценой и помечается в логе для сверки
func (uc *UseCase) resolvePrice(ctx context.Context, req *Request, slot *domain.AvailabilitySlot) int64 {
	quote, err := uc.pricing.GetQuoteWithGracefulDegradation(ctx, &pricing.QuoteRequest{
		TenantID:        slot.TenantID,
		CustomerID:      req.CustomerID,
		CategoryCode:    slot.CategoryCode,
		StartTime:       slot.StartTime.Format(time.RFC3339),
		DurationMinutes: slot.DurationMinutes,
	})
	if err != nil {
		uc.logger.Warn("finalize_booking: pricing unavailable, storing zero price, payment_id=%s: %v",
			req.PaymentID, err)
		return 0
	}
	return quote.AmountRappen
}

func (uc *UseCase) validateRequest(req *Request) error {
	if req.PaymentID == "" {
		return fmt.Errorf("%w: %s", ErrValidation, MsgInvalidPaymentID)
	}
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: %s", ErrValidation, MsgInvalidSlotID)
	}
	if req.SessionID == "" {
		return fmt.Errorf("%w: %s", ErrValidation, MsgInvalidSessionID)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: %s", ErrValidation, MsgInvalidCustomerID)
	}
	return nil
}

func responseFrom(appt *domain.Appointment, slotID int64, alreadyExists bool) *Response {
	return &Response{
		AppointmentID: appt.ID,
		SlotID:        slotID,
		StaffID:       appt.StaffID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		PriceRappen:   appt.PriceRappen,
		Status:        string(appt.Status),
		AlreadyExists: alreadyExists,
	}
}
