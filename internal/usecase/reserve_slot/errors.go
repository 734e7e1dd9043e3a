package reserve_slot

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrSlotNotAvailable возвращается при проигранной гонке за слот
	// Ожидаемый частый исход под нагрузкой: клиенту предлагается выбрать другой слот
	ErrSlotNotAvailable = errors.New("reserve_slot: slot no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
