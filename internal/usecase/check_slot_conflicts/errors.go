package check_slot_conflicts

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_slot_conflicts: invalid input data")

	// ErrInternal возвращается при ошибке выборки расписания клиента
	ErrInternal = errors.New("check_slot_conflicts: internal error")
)

// Причины конфликтов в результатах проверки
const (
	ReasonDirectConflict = "direct time conflict"
	ReasonTravelConflict = "travel-time conflict"
)
