package check_conflicts

import (
	"context"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на уроки
type AppointmentRepository interface {
	ListByStaffInRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
