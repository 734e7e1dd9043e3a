package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального ограничения
const pgUniqueViolation = "23505"

// appointmentColumns полный список колонок appointments в порядке сканирования
var appointmentColumns = []string{
	"id",
	"tenant_id",
	"staff_id",
	"location_id",
	"customer_id",
	"appointment_type",
	"start_time",
	"end_time",
	"status",
	"payment_id",
	"price_rappen",
	"notes",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Repository репозиторий для работы с записями на уроки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись на урок
// При повторной доставке payment-события вставка упирается в уникальный индекс
// payment_id и возвращает ErrDuplicatePayment - финализация идемпотентна
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"tenant_id",
			"staff_id",
			"location_id",
			"customer_id",
			"appointment_type",
			"start_time",
			"end_time",
			"status",
			"payment_id",
			"price_rappen",
			"notes",
		).
		Values(
			appt.TenantID,
			appt.StaffID,
			appt.LocationID,
			appt.CustomerID,
			appt.AppointmentType,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.PaymentID,
			appt.PriceRappen,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByPaymentID получает запись по идентификатору платежа
// Используется для идемпотентной обработки повторных payment-событий
func (r *Repository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"payment_id": paymentID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListByStaffInRange получает активные записи инструктора, пересекающиеся
// с интервалом [from, to)
// Отмененные, no-show и soft-deleted записи исключаются
func (r *Repository) ListByStaffInRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings()}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaffInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaffInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListItineraryByCustomer получает активные записи клиента в интервале [from, to)
// вместе с почтовыми индексами точек проведения - вход travel-aware фильтра конфликтов
func (r *Repository) ListItineraryByCustomer(ctx context.Context, tenantID, customerID int64, from, to time.Time) ([]domain.ItineraryAppointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.start_time",
		"a.end_time",
		"a.location_id",
		"l.postal_code",
	).
		From("appointments a").
		LeftJoin("locations l ON l.id = a.location_id").
		Where(squirrel.Eq{"a.tenant_id": tenantID}).
		Where(squirrel.Eq{"a.customer_id": customerID}).
		Where(squirrel.Eq{"a.deleted_at": nil}).
		Where(squirrel.NotEq{"a.status": inactiveStatusStrings()}).
		Where(squirrel.Lt{"a.start_time": to}).
		Where(squirrel.Gt{"a.end_time": from}).
		OrderBy("a.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListItineraryByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListItineraryByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.ItineraryAppointment, 0)
	for rows.Next() {
		var entry domain.ItineraryAppointment
		if err := rows.Scan(
			&entry.AppointmentID,
			&entry.StartTime,
			&entry.EndTime,
			&entry.LocationID,
			&entry.PostalCode,
		); err != nil {
			return nil, fmt.Errorf("%w: ListItineraryByCustomer - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListItineraryByCustomer - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// inactiveStatusStrings статусы, не занимающие время инструктора, в виде строк
func inactiveStatusStrings() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в модель записи
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.TenantID,
		&appt.StaffID,
		&appt.LocationID,
		&appt.CustomerID,
		&appt.AppointmentType,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.PaymentID,
		&appt.PriceRappen,
		&appt.Notes,
		&createdAt,
		&updatedAt,
		&appt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
