package list_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID        int64
	StaffID         *int64  // Фильтр по инструктору (опционально)
	LocationID      *int64  // Фильтр по точке встречи (опционально)
	CategoryCode    *string // Фильтр по категории (опционально)
	DurationMinutes *int    // Фильтр по длительности (опционально)
	From            time.Time
	To              time.Time
}

// Slot модель доступного окна для бронирования
type Slot struct {
	ID              int64
	StaffID         int64
	LocationID      int64
	CategoryCode    string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TenantID int64
	From     time.Time
	To       time.Time
	Slots    []Slot
}
