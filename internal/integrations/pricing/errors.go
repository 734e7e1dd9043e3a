package pricing

import "errors"

var (
	// ErrQuoteNotFound возвращается, когда для запрошенной комбинации нет прайса
	ErrQuoteNotFound = errors.New("pricing client: no price for this combination")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricing client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что pricing-сервис недоступен и финализация должна
	// продолжиться с нулевой ценой (сверка цены - забота платежного слоя)
	ErrServiceDegraded = errors.New("pricing service unavailable: graceful degradation applied")
)
