package reserve_slot

import (
	"context"
	"time"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// Reserve атомарное условное обновление - единственная защита от двойного бронирования
	Reserve(ctx context.Context, slotID int64, sessionID string, until time.Time, now time.Time) error
}

// Metrics интерфейс бизнес-метрик резервирования
type Metrics interface {
	IncReservation(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// noopMetrics заглушка метрик, когда сбор отключен
type noopMetrics struct{}

func (noopMetrics) IncReservation(string) {}
