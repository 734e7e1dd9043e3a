package check_slot_conflicts

import (
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	checkSlotConflicts "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_slot_conflicts"
)

// CheckSlotConflictsRequest HTTP request model
// Вместо existingAppointments клиент может передать tenantId и customerId,
// тогда расписание выбирается на стороне сервиса
type CheckSlotConflictsRequest struct {
	TenantID             int64                 `json:"tenantId"`
	CustomerID           int64                 `json:"customerId"`
	ExistingAppointments []ExistingAppointment `json:"existingAppointments"`
	ProposedSlots        []ProposedSlot        `json:"proposedSlots"`
	ProposedPostalCode   string                `json:"proposedPostalCode"`
}

// ExistingAppointment запись клиента в окружении проверяемых слотов
type ExistingAppointment struct {
	AppointmentID int64   `json:"appointmentId"`
	StartTime     string  `json:"startTime"` // RFC3339
	EndTime       string  `json:"endTime"`
	LocationID    int64   `json:"locationId"`
	PostalCode    *string `json:"postalCode,omitempty"`
}

// ProposedSlot кандидат на проверку
type ProposedSlot struct {
	SlotID    int64  `json:"slotId"`
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`
}

// CheckSlotConflictsResponse HTTP response model
type CheckSlotConflictsResponse struct {
	Results []SlotConflictResult `json:"results"`
}

// SlotConflictResult результат проверки одного кандидата
type SlotConflictResult struct {
	SlotID        int64   `json:"slotId"`
	HasConflict   bool    `json:"hasConflict"`
	Reason        *string `json:"reason,omitempty"`
	EarliestStart *string `json:"earliestStart,omitempty"` // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом времени)
func (r *CheckSlotConflictsRequest) ToUseCaseRequest() (*checkSlotConflicts.Request, error) {
	appointments := make([]domain.ItineraryAppointment, len(r.ExistingAppointments))
	for i, appt := range r.ExistingAppointments {
		start, err := time.Parse(time.RFC3339, appt.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(time.RFC3339, appt.EndTime)
		if err != nil {
			return nil, err
		}
		appointments[i] = domain.ItineraryAppointment{
			AppointmentID: appt.AppointmentID,
			StartTime:     start,
			EndTime:       end,
			LocationID:    appt.LocationID,
			PostalCode:    appt.PostalCode,
		}
	}

	slots := make([]checkSlotConflicts.ProposedSlot, len(r.ProposedSlots))
	for i, slot := range r.ProposedSlots {
		start, err := time.Parse(time.RFC3339, slot.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(time.RFC3339, slot.EndTime)
		if err != nil {
			return nil, err
		}
		slots[i] = checkSlotConflicts.ProposedSlot{
			SlotID:    slot.SlotID,
			StartTime: start,
			EndTime:   end,
		}
	}

	return &checkSlotConflicts.Request{
		TenantID:             r.TenantID,
		CustomerID:           r.CustomerID,
		ExistingAppointments: appointments,
		ProposedSlots:        slots,
		ProposedPostalCode:   r.ProposedPostalCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkSlotConflicts.Response) *CheckSlotConflictsResponse {
	results := make([]SlotConflictResult, len(resp.Results))
	for i, res := range resp.Results {
		result := SlotConflictResult{
			SlotID:      res.SlotID,
			HasConflict: res.HasConflict,
			Reason:      res.Reason,
		}
		if res.EarliestStart != nil {
			formatted := res.EarliestStart.Format(time.RFC3339)
			result.EarliestStart = &formatted
		}
		results[i] = result
	}

	return &CheckSlotConflictsResponse{Results: results}
}
