package domain

// Значения по умолчанию
const (
	DefaultHorizonDays            = 30 // Горизонт генерации слотов
	DefaultLessonDurationMinutes  = 45
	DefaultReservationTTLMinutes  = 15
	MaxReservationTTLMinutes      = 60
	DefaultLeadTimeHours          = 24
	DefaultTenantBudgetSeconds    = 60 // Бюджет генерации на одного тенанта
	DefaultTravelCacheTTLHours    = 24
	DefaultOffPeakFallbackMinutes = 0 // 0 = при недоступном провайдере ограничение не применяется
)

// Границы валидации
const (
	MinLessonDurationMinutes = 15
	MaxLessonDurationMinutes = 240
	MaxHorizonDays           = 365
	MaxNotesLength           = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
