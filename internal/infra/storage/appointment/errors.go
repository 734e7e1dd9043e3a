package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись на урок не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrDuplicatePayment возвращается при повторной вставке записи с тем же payment_id
	// Уникальный индекс на payment_id делает финализацию идемпотентной
	ErrDuplicatePayment = errors.New("appointment.repository: appointment for this payment already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
