package sweep_reservations

import (
	"context"
	"fmt"
	"time"
)

// UseCase очистка истекших резерваций слотов
//
// Sweeper - только гигиена хранилища: пути чтения и резервирования сами
// игнорируют истекшие резервации, поэтому задержка очистки не влияет
// на корректность, только на читаемость данных
type UseCase struct {
	slotRepo SlotRepository
	metrics  Metrics
	time     TimeProvider
	logger   Logger
}

// NewUseCase создает новый UseCase для очистки резерваций
func NewUseCase(slots SlotRepository, metrics Metrics, timeProvider TimeProvider, logger Logger) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		slotRepo: slots,
		metrics:  metrics,
		time:     timeProvider,
		logger:   logger,
	}
}

// slotRetention сколько держать закончившиеся невостребованные слоты
// до физического удаления
const slotRetention = 30 * 24 * time.Hour

// Execute снимает все резервации с reserved_until в прошлом
// и удаляет невостребованные слоты старше периода хранения
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.time.Now()

	released, err := uc.slotRepo.ReleaseExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("sweep_reservations: Execute - failed to release expired reservations: %w", err)
	}

	if released > 0 {
		uc.logger.Info("sweep_reservations: released %d expired reservations", released)
	}
	uc.metrics.AddSweptReservations(released)

	purged, err := uc.slotRepo.PurgeFinished(ctx, now.Add(-slotRetention))
	if err != nil {
		// Резервации уже сняты, неудавшаяся чистка не должна ронять прогон
		uc.logger.Error("sweep_reservations: failed to purge finished slots: %v", err)
		return released, nil
	}
	if purged > 0 {
		uc.logger.Info("sweep_reservations: purged %d finished unclaimed slots", purged)
	}

	return released, nil
}
