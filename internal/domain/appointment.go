package domain

import "time"

// AppointmentStatus статус записи на урок
type AppointmentStatus string

const (
	StatusScheduled          AppointmentStatus = "scheduled"
	StatusCompleted          AppointmentStatus = "completed"
	StatusCancelledByCustomer AppointmentStatus = "cancelled_by_customer"
	StatusCancelledByStaff   AppointmentStatus = "cancelled_by_staff"
	StatusNoShow             AppointmentStatus = "no_show"
)

// Appointment подтвержденная запись на урок
// Создается финализатором из валидного резервирования после успешной оплаты
type Appointment struct {
	ID              int64
	TenantID        int64
	StaffID         int64
	LocationID      int64
	CustomerID      int64
	AppointmentType string
	StartTime       time.Time
	EndTime         time.Time
	Status          AppointmentStatus

	// Денормализованные данные на момент финализации
	PaymentID   string // Уникален - повторная доставка payment-события не создает дубликат
	PriceRappen int64  // 0, если pricing-сервис был недоступен
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft delete: такие записи исключаются из всех выборок ядра
}

// IsActive возвращает true, если запись занимает время инструктора
func (a *Appointment) IsActive() bool {
	return a.DeletedAt == nil &&
		a.Status != StatusCancelledByCustomer &&
		a.Status != StatusCancelledByStaff &&
		a.Status != StatusNoShow
}

// Overlaps возвращает true, если запись пересекается с интервалом [start, end)
// Граничащие интервалы пересечением не считаются
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// ItineraryAppointment запись клиента в окружении проверяемого слота
// Используется travel-aware фильтром конфликтов: помимо времени нужна точка
// проведения (почтовый индекс может отсутствовать, тогда travel-проверка не выполняется)
type ItineraryAppointment struct {
	AppointmentID int64
	StartTime     time.Time
	EndTime       time.Time
	LocationID    int64
	PostalCode    *string
}

// InactiveStatuses статусы записей, не занимающих время инструктора
// Используются при фильтрации в генераторе слотов и проверках конфликтов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByCustomer,
	StatusCancelledByStaff,
	StatusNoShow,
}
