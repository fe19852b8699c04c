package departure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

// Repository репозиторий групповых выездов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория выездов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает выезд по ID
// В транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"route_name",
		"start_date",
		"end_date",
		"max_climbers",
		"price_per_person",
		"created_at",
		"updated_at",
	).
		From("group_departures").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.GroupDeparture
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.RouteName,
		&d.StartDate,
		&d.EndDate,
		&d.MaxClimbers,
		&d.PricePerPerson,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDepartureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan departure: %v", ErrScanRow, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}
