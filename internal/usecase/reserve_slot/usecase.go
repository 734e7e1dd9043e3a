package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/slot"
)

// Request модель запроса на резервирование слота
type Request struct {
	SlotID     int64
	SessionID  string // Идентификатор checkout-сессии клиента
	TTLMinutes int    // 0 = TTL по умолчанию
}

// Response подтверждение резервирования
// SessionID и ReservedUntil клиент предъявляет при финализации
type Response struct {
	SlotID        int64
	SessionID     string
	ReservedUntil time.Time
}

// UseCase use case резервирования слота на время checkout
// Вся конкурентная корректность - в условном обновлении репозитория:
// из N одновременных запросов на слот выигрывает ровно один, остальным
// возвращается ErrSlotNotAvailable для немедленного повтора с другим слотом
type UseCase struct {
	slotRepo     SlotRepository
	defaultTTL   time.Duration
	maxTTL       time.Duration
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если сбор метрик отключен
func NewUseCase(slotRepo SlotRepository, defaultTTL, maxTTL time.Duration, metrics Metrics, logger Logger) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		slotRepo:     slotRepo,
		defaultTTL:   defaultTTL,
		maxTTL:       maxTTL,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет резервирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	ttl := time.Duration(req.TTLMinutes) * time.Minute
	if ttl == 0 {
		ttl = uc.defaultTTL
	}
	if ttl > uc.maxTTL {
		ttl = uc.maxTTL
	}

	now := uc.timeProvider.Now()
	until := now.Add(ttl)

	err := uc.slotRepo.Reserve(ctx, req.SlotID, req.SessionID, until, now)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotTaken) {
			// Проигранная гонка - нормальный исход, не исключение
			uc.metrics.IncReservation("lost")
			uc.logger.Info("ReserveSlot: slot=%d no longer available for session=%s", req.SlotID, req.SessionID)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("ReserveSlot: failed to reserve slot=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
	}

	uc.metrics.IncReservation("won")
	uc.logger.Info("ReserveSlot: slot=%d reserved by session=%s until %s",
		req.SlotID, req.SessionID, until.Format(time.RFC3339))

	return &Response{
		SlotID:        req.SlotID,
		SessionID:     req.SessionID,
		ReservedUntil: until,
	}, nil
}

// validateRequest валидирует входные данные запроса
func (uc *UseCase) validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}
	if req.TTLMinutes < 0 {
		return fmt.Errorf("%w: ttlMinutes must not be negative", ErrInvalidInput)
	}
	return nil
}
