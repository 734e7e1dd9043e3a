package generate_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_availability: invalid input data")

	// ErrNoTenants возвращается, когда не удалось получить список тенантов
	ErrNoTenants = errors.New("generate_availability: failed to list tenants")

	// ErrTenantFailed возвращается в результате по тенанту, обработка которого
	// не удалась; остальные тенанты при этом обрабатываются дальше
	ErrTenantFailed = errors.New("generate_availability: tenant generation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_availability: internal error")
)
