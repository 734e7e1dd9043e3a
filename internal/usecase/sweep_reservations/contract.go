package sweep_reservations

import (
	"context"
	"time"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)
	PurgeFinished(ctx context.Context, before time.Time) (int, error)
}

// Metrics интерфейс бизнес-метрик sweeper'а
type Metrics interface {
	AddSweptReservations(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
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

func (noopMetrics) AddSweptReservations(int) {}
