package finalize_booking

import (
	"context"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/internal/integrations/pricing"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
	LinkAppointment(ctx context.Context, staffID, locationID int64, start, end time.Time, appointmentID int64) (int, error)
}

// AppointmentRepository интерфейс репозитория записей на уроки
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Appointment, error)
}

// PricingClient интерфейс клиента pricing-сервиса
type PricingClient interface {
	GetQuoteWithGracefulDegradation(ctx context.Context, req *pricing.QuoteRequest) (*pricing.Quote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик финализации
type Metrics interface {
	IncFinalization(outcome string)
	IncSlotLinkAlert()
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

func (noopMetrics) IncFinalization(string) {}
func (noopMetrics) IncSlotLinkAlert()      {}
