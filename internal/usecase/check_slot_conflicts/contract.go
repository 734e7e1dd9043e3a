package check_slot_conflicts

import (
	"context"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// ItineraryRepository интерфейс выборки расписания клиента
// Используется, когда вызывающая сторона не передала записи явно
type ItineraryRepository interface {
	ListItineraryByCustomer(ctx context.Context, tenantID, customerID int64, from, to time.Time) ([]domain.ItineraryAppointment, error)
}

// TravelTimeResolver интерфейс сервиса времени в пути
type TravelTimeResolver interface {
	Resolve(ctx context.Context, fromPostalCode, toPostalCode string, departure time.Time) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
