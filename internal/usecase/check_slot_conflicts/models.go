package check_slot_conflicts

import (
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// ProposedSlot кандидат на проверку
type ProposedSlot struct {
	SlotID    int64
	StartTime time.Time
	EndTime   time.Time
}

// Request модель batch-запроса travel-aware проверки конфликтов
// ExistingAppointments - записи клиента в окружении проверяемых слотов,
// ProposedPostalCode - индекс точки встречи кандидатов
//
// Если ExistingAppointments не переданы, а TenantID и CustomerID заданы,
// расписание клиента выбирается из хранилища в окрестности кандидатов
type Request struct {
	TenantID             int64
	CustomerID           int64
	ExistingAppointments []domain.ItineraryAppointment
	ProposedSlots        []ProposedSlot
	ProposedPostalCode   string
}

// SlotConflictResult результат проверки одного кандидата
type SlotConflictResult struct {
	SlotID        int64
	HasConflict   bool
	Reason        *string    // Заполнен только при конфликте
	EarliestStart *time.Time // Самое раннее допустимое начало при travel-конфликте
}

// Response модель ответа batch-проверки
type Response struct {
	Results []SlotConflictResult
}
