package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/pgerr"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"booking_ref",
	"departure_id",
	"lead_name",
	"lead_email",
	"lead_phone",
	"total_climbers",
	"total_price",
	"status",
	"partner_id",
	"notes",
	"deposit_paid",
	"deposit_paid_at",
	"balance_paid",
	"balance_paid_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// ID и BookingRef формирует вызывающий код
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"booking_ref",
			"departure_id",
			"lead_name",
			"lead_email",
			"lead_phone",
			"total_climbers",
			"total_price",
			"status",
			"partner_id",
			"notes",
			"deposit_paid",
			"balance_paid",
		).
		Values(
			booking.ID,
			booking.BookingRef,
			booking.DepartureID,
			booking.LeadName,
			booking.LeadEmail,
			booking.LeadPhone,
			booking.TotalClimbers,
			booking.TotalPrice,
			booking.Status,
			booking.PartnerID,
			booking.Notes,
			booking.DepositPaid,
			booking.BalancePaid,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateBookingRef
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции блокирует строку (FOR UPDATE), чтобы изменения оплаты
// и выпуск токенов не выполнялись параллельно для одного бронирования
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByRefAndLeadEmail ищет бронирование по короткому коду и email лида
// Оба значения сравниваются без учета регистра
func (r *Repository) GetByRefAndLeadEmail(ctx context.Context, ref string, leadEmail string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_ref": domain.NormalizeBookingRef(ref)}).
		Where(squirrel.Expr("lower(lead_email) = ?", domain.NormalizeEmail(leadEmail))).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByRefAndLeadEmail - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRefAndLeadEmail - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// CountReservedClimbers считает места, занятые активными бронированиями на выезде
func (r *Repository) CountReservedClimbers(ctx context.Context, departureID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COALESCE(SUM(total_climbers), 0)").
		From("bookings").
		Where(squirrel.Eq{"departure_id": departureID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountReservedClimbers - build select query: %v", ErrBuildQuery, err)
	}

	var reserved int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&reserved); err != nil {
		return 0, fmt.Errorf("%w: CountReservedClimbers - scan sum: %v", ErrScanRow, err)
	}

	return reserved, nil
}

// ListByDeparture возвращает бронирования выезда, новые первыми
// При пустом statuses фильтр по статусу не применяется
func (r *Repository) ListByDeparture(ctx context.Context, departureID int64, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"departure_id": departureID})

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": values})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDeparture - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDeparture - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDeparture - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDeparture - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// Update применяет частичное обновление и возвращает актуальное бронирование
// Отметки времени оплаты ставятся при переходе флага в true и сбрасываются при false
func (r *Repository) Update(ctx context.Context, id string, update domain.BookingUpdate, now time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id})

	if update.DepositPaid != nil {
		updateBuilder = updateBuilder.Set("deposit_paid", *update.DepositPaid)
		if *update.DepositPaid {
			updateBuilder = updateBuilder.Set("deposit_paid_at", squirrel.Expr("COALESCE(deposit_paid_at, ?)", now))
		} else {
			updateBuilder = updateBuilder.Set("deposit_paid_at", nil)
		}
	}

	if update.BalancePaid != nil {
		updateBuilder = updateBuilder.Set("balance_paid", *update.BalancePaid)
		if *update.BalancePaid {
			updateBuilder = updateBuilder.Set("balance_paid_at", squirrel.Expr("COALESCE(balance_paid_at, ?)", now))
		} else {
			updateBuilder = updateBuilder.Set("balance_paid_at", nil)
		}
	}

	if update.Status != nil {
		updateBuilder = updateBuilder.Set("status", *update.Status)
	}

	if update.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *update.Notes)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// Delete удаляет бронирование физически
// Данные участников, токены, комиссия и уведомления удаляются каскадно (ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование (порядок колонок - bookingColumns)
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.BookingRef,
		&booking.DepartureID,
		&booking.LeadName,
		&booking.LeadEmail,
		&booking.LeadPhone,
		&booking.TotalClimbers,
		&booking.TotalPrice,
		&booking.Status,
		&booking.PartnerID,
		&booking.Notes,
		&booking.DepositPaid,
		&booking.DepositPaidAt,
		&booking.BalancePaid,
		&booking.BalancePaidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
