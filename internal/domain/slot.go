package domain

import "time"

// AvailabilitySlot материализованное окно доступности инструктора
// Центральная сущность: создается генератором, резервируется на время checkout,
// при успешной оплате связывается с записью на урок (appointment)
//
// Инварианты:
//   - AppointmentID != nil => IsAvailable == false и ReservedBySession == nil
//   - ReservedUntil в прошлом означает, что слот снова доступен, даже если
//     reservation-поля еще не очищены sweeper'ом (ленивая консистентность)
type AvailabilitySlot struct {
	ID              int64
	TenantID        int64
	StaffID         int64
	LocationID      int64
	CategoryCode    string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int

	IsAvailable       bool
	ReservedBySession *string
	ReservedUntil     *time.Time
	AppointmentID     *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConsumed возвращает true, если слот уже связан с записью на урок
func (s *AvailabilitySlot) IsConsumed() bool {
	return s.AppointmentID != nil
}

// IsReservedBy возвращает true, если слот удерживается указанной сессией
// и резервирование еще не истекло
func (s *AvailabilitySlot) IsReservedBy(sessionID string, now time.Time) bool {
	return s.ReservedBySession != nil && *s.ReservedBySession == sessionID &&
		s.ReservedUntil != nil && s.ReservedUntil.After(now)
}

// SlotFilter фильтр для выборки доступных слотов
type SlotFilter struct {
	TenantID        int64   // Обязательный параметр
	StaffID         *int64  // Фильтр по инструктору (опционально)
	LocationID      *int64  // Фильтр по точке встречи (опционально)
	CategoryCode    *string // Фильтр по категории (опционально)
	DurationMinutes *int    // Фильтр по длительности (опционально)
	From            time.Time
	To              time.Time
}
