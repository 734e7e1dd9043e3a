package domain

import (
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/pkg/types"
)

// StaffMember инструктор автошколы
// Справочные данные: принадлежат админке, ядро читает их только для генерации
type StaffMember struct {
	ID                          int64
	TenantID                    int64
	DisplayName                 string
	MinimumBookingLeadTimeHours int // Минимальный срок до начала первого бронируемого слота
	Active                      bool
}

// WorkingHourBlock еженедельный блок рабочих часов инструктора
// LocationID - точка встречи, с которой начинаются уроки этого блока
type WorkingHourBlock struct {
	ID         int64
	StaffID    int64
	LocationID int64
	DayOfWeek  time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	Active     bool
}

// Location точка встречи (филиал, место начала урока)
type Location struct {
	ID         int64
	TenantID   int64
	Name       string
	PostalCode string
}

// LessonCategory категория уроков тенанта с настроенной длительностью
// Длительность категории задает шаг нарезки рабочих блоков на слоты
type LessonCategory struct {
	TenantID        int64
	Code            string // Например "B", "A1", "BE"
	DurationMinutes int
}
