package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (см. dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository read-only репозиторий справочных данных расписания:
// тенанты, инструкторы, рабочие блоки, точки встречи, категории
// Все эти данные принадлежат админке и мутируются вне ядра
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListTenantIDs получает идентификаторы всех активных тенантов
// Используется генератором при запуске без фильтра по тенанту
func (r *Repository) ListTenantIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("tenants").
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTenantIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTenantIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListTenantIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTenantIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// ListActiveStaff получает активных инструкторов тенанта
// Если staffID указан, выборка сужается до одного инструктора
func (r *Repository) ListActiveStaff(ctx context.Context, tenantID int64, staffID *int64) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"display_name",
		"minimum_booking_lead_time_hours",
		"active",
	).
		From("staff_members").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC")

	if staffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"id": *staffID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.StaffMember, 0)
	for rows.Next() {
		var member domain.StaffMember
		if err := rows.Scan(
			&member.ID,
			&member.TenantID,
			&member.DisplayName,
			&member.MinimumBookingLeadTimeHours,
			&member.Active,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActiveStaff - scan row: %v", ErrScanRow, err)
		}
		staff = append(staff, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - rows error: %v", ErrScanRow, err)
	}

	return staff, nil
}

// ListWorkingHourBlocks получает активные еженедельные рабочие блоки инструктора
func (r *Repository) ListWorkingHourBlocks(ctx context.Context, staffID int64) ([]*domain.WorkingHourBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"location_id",
		"day_of_week",
		"start_time",
		"end_time",
		"active",
	).
		From("working_hour_blocks").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHourBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHourBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.WorkingHourBlock, 0)
	for rows.Next() {
		var block domain.WorkingHourBlock
		var dayOfWeek int
		if err := rows.Scan(
			&block.ID,
			&block.StaffID,
			&block.LocationID,
			&dayOfWeek,
			&block.StartTime,
			&block.EndTime,
			&block.Active,
		); err != nil {
			return nil, fmt.Errorf("%w: ListWorkingHourBlocks - scan row: %v", ErrScanRow, err)
		}
		block.DayOfWeek = time.Weekday(dayOfWeek)
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHourBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// ListStaffLocationIDs получает точки встречи, закрепленные за инструктором,
// через явную связь location_staff (many-to-many)
func (r *Repository) ListStaffLocationIDs(ctx context.Context, staffID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("location_id").
		From("location_staff").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("location_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffLocationIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffLocationIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListStaffLocationIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffLocationIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// ListCategories получает категории уроков тенанта с настроенными длительностями
func (r *Repository) ListCategories(ctx context.Context, tenantID int64) ([]*domain.LessonCategory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"code",
		"duration_minutes",
	).
		From("lesson_categories").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("code ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCategories - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCategories - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	categories := make([]*domain.LessonCategory, 0)
	for rows.Next() {
		var category domain.LessonCategory
		if err := rows.Scan(
			&category.TenantID,
			&category.Code,
			&category.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: ListCategories - scan row: %v", ErrScanRow, err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCategories - rows error: %v", ErrScanRow, err)
	}

	return categories, nil
}
