package area

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий зон и их окон работы.
// Данные ведет административный CRUD, здесь только чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория зон
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает зону по ID
// Внутри транзакции строка зоны блокируется на чтение (FOR SHARE),
// чтобы смена состояния зоны не проскочила между проверкой и записью бронирования
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CommonArea, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"description",
		"capacity",
		"cost",
		"state",
	).
		From("common_areas").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var area domain.CommonArea
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&area.ID,
		&area.Description,
		&area.Capacity,
		&area.Cost,
		&area.State,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAreaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan area: %w", ErrScanRow, err)
	}

	return &area, nil
}

// GetWindows получает окна работы зоны, отсортированные по времени начала
func (r *Repository) GetWindows(ctx context.Context, areaID int64) ([]*domain.ScheduleWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"area_id",
		"start_time",
		"end_time",
		"created_at",
	).
		From("schedule_windows").
		Where(squirrel.Eq{"area_id": areaID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.ScheduleWindow, 0)
	for rows.Next() {
		var window domain.ScheduleWindow
		var createdAt sql.NullTime

		if err := rows.Scan(
			&window.ID,
			&window.AreaID,
			&window.StartTime,
			&window.EndTime,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetWindows - scan row: %v", ErrScanRow, err)
		}

		window.CreatedAt = createdAt.Time
		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}
