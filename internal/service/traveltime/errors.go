package traveltime

import "errors"

var (
	// ErrCacheMiss возвращается кешем, когда значения нет
	ErrCacheMiss = errors.New("traveltime: cache miss")

	// ErrUnavailable возвращается, когда время в пути определить не удалось
	// Вызывающая сторона обязана деградировать до "ограничение не применяется",
	// а не отклонять слот
	ErrUnavailable = errors.New("traveltime: travel time unavailable")
)
