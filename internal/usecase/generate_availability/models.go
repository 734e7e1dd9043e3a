package generate_availability

// Request модель запроса на генерацию слотов доступности
type Request struct {
	TenantID  *int64 // Конкретный тенант (nil = все активные тенанты)
	StaffID   *int64 // Конкретный инструктор (nil = все активные инструкторы тенанта)
	DaysAhead int    // Горизонт генерации в днях (0 = значение по умолчанию)
}

// TenantResult результат генерации по одному тенанту
type TenantResult struct {
	TenantID  int64
	Generated int
	Retracted int
	Failed    bool
	Error     string // Пустая строка, если тенант обработан успешно
}

// Response модель ответа генерации
type Response struct {
	Generated int // Суммарно записанных слотов
	Retracted int // Суммарно отозванных слотов
	Tenants   []TenantResult
}
