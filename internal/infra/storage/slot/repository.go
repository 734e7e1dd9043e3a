package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/psqlbuilder"
)

// slotColumns полный список колонок availability_slots в порядке сканирования
var slotColumns = []string{
	"id",
	"tenant_id",
	"staff_id",
	"location_id",
	"category_code",
	"start_time",
	"end_time",
	"duration_minutes",
	"is_available",
	"reserved_by_session",
	"reserved_until",
	"appointment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BatchUpsert идемпотентно записывает кандидатов в Slot Store
// Ключ уникальности: (tenant_id, staff_id, location_id, start_time, end_time,
// duration_minutes, category_code) - повторный запуск генерации не создает дубликатов.
//
// При конфликте слот снова помечается доступным, но только если он не связан
// с записью на урок: потребленные слоты генерация не трогает
func (r *Repository) BatchUpsert(ctx context.Context, slots []*domain.AvailabilitySlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("availability_slots").
		Columns(
			"tenant_id",
			"staff_id",
			"location_id",
			"category_code",
			"start_time",
			"end_time",
			"duration_minutes",
			"is_available",
		)

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.TenantID,
			s.StaffID,
			s.LocationID,
			s.CategoryCode,
			s.StartTime,
			s.EndTime,
			s.DurationMinutes,
			s.IsAvailable,
		)
	}

	query, args, err := insertBuilder.
		Suffix(`ON CONFLICT (tenant_id, staff_id, location_id, start_time, end_time, duration_minutes, category_code)
			DO UPDATE SET
				is_available = CASE
					WHEN availability_slots.appointment_id IS NOT NULL THEN false
					ELSE EXCLUDED.is_available
				END,
				updated_at = NOW()`).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: BatchUpsert - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BatchUpsert - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BatchUpsert - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// RetractBefore отзывает (is_available=false) свободные слоты инструктора,
// начинающиеся раньше minStart - используется генератором для слотов,
// попавших под минимальный срок бронирования
func (r *Repository) RetractBefore(ctx context.Context, staffID int64, minStart time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("is_available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Eq{"appointment_id": nil}).
		Where(squirrel.Lt{"start_time": minStart}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RetractBefore - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RetractBefore - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RetractBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// RetractOverlapping отзывает свободные слоты инструктора, пересекающиеся
// с интервалом [start, end) - окно больше не удовлетворяет доступности,
// например из-за записи, появившейся после прошлого запуска генерации
func (r *Repository) RetractOverlapping(ctx context.Context, staffID int64, start, end time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("is_available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Eq{"appointment_id": nil}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RetractOverlapping - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RetractOverlapping - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RetractOverlapping - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	slot, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListAvailable получает доступные слоты по фильтру
// Возвращает только окна с is_available=true, концом в будущем и без активного
// резервирования (истекшие резервирования трактуются как свободные лениво,
// не дожидаясь sweeper'а)
func (r *Repository) ListAvailable(ctx context.Context, filter domain.SlotFilter, now time.Time) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Eq{"appointment_id": nil}).
		Where(squirrel.Gt{"end_time": now}).
		Where(squirrel.Or{
			squirrel.Eq{"reserved_until": nil},
			squirrel.Lt{"reserved_until": now},
		})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.CategoryCode != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category_code": *filter.CategoryCode})
	}
	if filter.DurationMinutes != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"duration_minutes": *filter.DurationMinutes})
	}
	if !filter.From.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": filter.From})
	}
	if !filter.To.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To})
	}

	query, args, err := selectBuilder.
		OrderBy("start_time ASC, staff_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve атомарно резервирует слот для сессии
// Единственная защита от двойного бронирования: условие в WHERE гарантирует,
// что из N конкурентных запросов на один слот строку обновит ровно один,
// независимо от количества процессов. Никаких in-process мьютексов.
//
// Возвращает ErrSlotTaken, если условие не выполнено (0 затронутых строк)
func (r *Repository) Reserve(ctx context.Context, slotID int64, sessionID string, until time.Time, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("reserved_by_session", sessionID).
		Set("reserved_until", until).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Eq{"appointment_id": nil}).
		Where(squirrel.Or{
			squirrel.Eq{"reserved_until": nil},
			squirrel.Lt{"reserved_until": now},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotTaken
	}

	return nil
}

// LinkAppointment связывает с записью на урок все слоты инструктора на точке,
// пересекающиеся с интервалом [start, end), одним пакетным обновлением
// Бронирование может занимать несколько сгенерированных окон, если длительность
// урока отличается от шага генерации
//
// Возвращает количество связанных слотов
func (r *Repository) LinkAppointment(ctx context.Context, staffID, locationID int64, start, end time.Time, appointmentID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("appointment_id", appointmentID).
		Set("is_available", false).
		Set("reserved_by_session", nil).
		Set("reserved_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"appointment_id": nil}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: LinkAppointment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: LinkAppointment - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: LinkAppointment - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// ReleaseExpired освобождает истекшие резервирования
// Слоты с appointment_id не трогаются никогда
func (r *Repository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("reserved_by_session", nil).
		Set("reserved_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Lt{"reserved_until": now}).
		Where(squirrel.Eq{"appointment_id": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseExpired - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseExpired - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// PurgeFinished удаляет давно закончившиеся слоты, так и не связанные
// с записью на урок. История занятых слотов живет в appointments,
// невостребованные окна после окончания - мусор
func (r *Repository) PurgeFinished(ctx context.Context, before time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_slots").
		Where(squirrel.LtOrEq{"end_time": before}).
		Where(squirrel.Eq{"appointment_id": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: PurgeFinished - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeFinished - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeFinished - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSlot сканирует одну строку в модель слота
func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var slot domain.AvailabilitySlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.TenantID,
		&slot.StaffID,
		&slot.LocationID,
		&slot.CategoryCode,
		&slot.StartTime,
		&slot.EndTime,
		&slot.DurationMinutes,
		&slot.IsAvailable,
		&slot.ReservedBySession,
		&slot.ReservedUntil,
		&slot.AppointmentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
