package routing

import "errors"

var (
	// ErrRouteNotFound возвращается, когда провайдер не смог построить маршрут
	ErrRouteNotFound = errors.New("routing client: route not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("routing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("routing client: invalid response")
)
