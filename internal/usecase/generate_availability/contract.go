package generate_availability

import (
	"context"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// ScheduleRepository интерфейс репозитория справочных данных расписания
type ScheduleRepository interface {
	ListTenantIDs(ctx context.Context) ([]int64, error)
	ListActiveStaff(ctx context.Context, tenantID int64, staffID *int64) ([]*domain.StaffMember, error)
	ListWorkingHourBlocks(ctx context.Context, staffID int64) ([]*domain.WorkingHourBlock, error)
	ListStaffLocationIDs(ctx context.Context, staffID int64) ([]int64, error)
	ListCategories(ctx context.Context, tenantID int64) ([]*domain.LessonCategory, error)
}

// AppointmentRepository интерфейс репозитория записей на уроки
type AppointmentRepository interface {
	ListByStaffInRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	BatchUpsert(ctx context.Context, slots []*domain.AvailabilitySlot) (int, error)
	RetractBefore(ctx context.Context, staffID int64, minStart time.Time) (int, error)
	RetractOverlapping(ctx context.Context, staffID int64, start, end time.Time) (int, error)
}

// Metrics интерфейс бизнес-метрик генерации
type Metrics interface {
	AddGeneratedSlots(n int)
	AddRetractedSlots(n int)
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

func (noopMetrics) AddGeneratedSlots(int) {}
func (noopMetrics) AddRetractedSlots(int) {}
