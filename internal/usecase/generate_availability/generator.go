package generate_availability

import (
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

// buildCandidates нарезает рабочие блоки инструктора на окна-кандидаты
// по всем категориям тенанта на горизонте [now, now+days)
//
// Кандидат отбрасывается, если:
//   - точка встречи блока не закреплена за инструктором (связь location_staff)
//   - окно начинается раньше minStart (минимальный срок бронирования)
//   - окно пересекается с активной записью на урок
func buildCandidates(
	tenantID int64,
	staff *domain.StaffMember,
	blocks []*domain.WorkingHourBlock,
	allowedLocations map[int64]bool,
	categories []*domain.LessonCategory,
	appointments []*domain.Appointment,
	now time.Time,
	days int,
	minStart time.Time,
	warnSkippedLocation func(blockID, locationID int64),
) ([]*domain.AvailabilitySlot, error) {
	// Индексируем блоки по дню недели
	blocksByDay := make(map[time.Weekday][]*domain.WorkingHourBlock)
	for _, block := range blocks {
		blocksByDay[block.DayOfWeek] = append(blocksByDay[block.DayOfWeek], block)
	}

	candidates := make([]*domain.AvailabilitySlot, 0)

	// Пересекающиеся блоки одного дня порождают совпадающие окна,
	// а батч-upsert не допускает двух строк с одним ключом в одном стейтменте
	seen := make(map[candidateKey]bool)

	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, day)

		for _, block := range blocksByDay[date.Weekday()] {
			if !allowedLocations[block.LocationID] {
				warnSkippedLocation(block.ID, block.LocationID)
				continue
			}

			blockStart, err := block.StartTime.OnDate(date)
			if err != nil {
				return nil, err
			}
			blockEnd, err := block.EndTime.OnDate(date)
			if err != nil {
				return nil, err
			}

			for _, category := range categories {
				duration := time.Duration(category.DurationMinutes) * time.Minute

				// Идем по блоку с шагом длительности категории,
				// пока окно целиком помещается в блок
				for t := blockStart; !t.Add(duration).After(blockEnd); t = t.Add(duration) {
					slotEnd := t.Add(duration)

					if t.Before(minStart) {
						continue
					}
					if overlapsAny(appointments, t, slotEnd) {
						continue
					}

					key := candidateKey{
						locationID: block.LocationID,
						start:      t.Unix(),
						duration:   category.DurationMinutes,
						category:   category.Code,
					}
					if seen[key] {
						continue
					}
					seen[key] = true

					candidates = append(candidates, &domain.AvailabilitySlot{
						TenantID:        tenantID,
						StaffID:         staff.ID,
						LocationID:      block.LocationID,
						CategoryCode:    category.Code,
						StartTime:       t,
						EndTime:         slotEnd,
						DurationMinutes: category.DurationMinutes,
						IsAvailable:     true,
					})
				}
			}
		}
	}

	return candidates, nil
}

// candidateKey натуральный ключ окна-кандидата в рамках одного инструктора
type candidateKey struct {
	locationID int64
	start      int64
	duration   int
	category   string
}

// overlapsAny возвращает true, если интервал [start, end) пересекается
// хотя бы с одной активной записью
// Граничащие интервалы пересечением не считаются
func overlapsAny(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
