package slot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/pkg/dbmetrics"
	"github.com/nowly-app/Nowly-BookingService/pkg/psqlbuilder"
)

// slotColumns колонки таблицы slots в порядке сканирования
var slotColumns = []string{
	"id",
	"service_category",
	"sub_category",
	"provider_name",
	"address",
	"slot_date",
	"start_time",
	"duration_minutes",
	"available",
	"longitude",
	"latitude",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
// Обязательность полей проверяется на уровне сервиса, здесь только запись
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"service_category",
			"sub_category",
			"provider_name",
			"address",
			"slot_date",
			"start_time",
			"duration_minutes",
			"available",
			"longitude",
			"latitude",
		).
		Values(
			slot.ServiceCategory,
			slot.SubCategory,
			slot.ProviderName,
			slot.Address,
			slot.Date,
			slot.StartTime,
			slot.DurationMinutes,
			slot.Available,
			slot.Longitude,
			slot.Latitude,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции блокирует строку слота (FOR UPDATE) - это сериализует
// конкурирующие бронирования одного и того же слота
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.ServiceCategory,
		&slot.SubCategory,
		&slot.ProviderName,
		&slot.Address,
		&slot.Date,
		&slot.StartTime,
		&slot.DurationMinutes,
		&slot.Available,
		&slot.Longitude,
		&slot.Latitude,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// ListAvailable получает доступные слоты с опциональной фильтрацией
// по категории, подкатегории и дате. Порядок - порядок вставки (id ASC).
func (r *Repository) ListAvailable(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"available": true}).
		OrderBy("id ASC")

	if filter.ServiceCategory != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_category": *filter.ServiceCategory})
	}
	if filter.SubCategory != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sub_category": *filter.SubCategory})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *filter.Date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// MarkUnavailable сбрасывает флаг доступности слота
// Используется в режиме per-slot, когда бронирование потребляет слот целиком
func (r *Repository) MarkUnavailable(ctx context.Context, id int64) error {
	return r.setAvailability(ctx, id, false)
}

// SetAvailable возвращает слот в доступное состояние
// Используется в режиме per-slot при отмене бронирования
func (r *Repository) SetAvailable(ctx context.Context, id int64) error {
	return r.setAvailability(ctx, id, true)
}

func (r *Repository) setAvailability(ctx context.Context, id int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: setAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: setAvailability - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: setAvailability - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.ServiceCategory,
			&slot.SubCategory,
			&slot.ProviderName,
			&slot.Address,
			&slot.Date,
			&slot.StartTime,
			&slot.DurationMinutes,
			&slot.Available,
			&slot.Longitude,
			&slot.Latitude,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
