package commission

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

// Repository репозиторий партнеров и комиссий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория комиссий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActivePartnerByCode ищет активного партнера по реферальному коду без учета регистра
func (r *Repository) GetActivePartnerByCode(ctx context.Context, code string) (*domain.Partner, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"referral_code",
		"commission_rate",
		"email",
		"is_active",
	).
		From("partners").
		Where(squirrel.Eq{"upper(referral_code)": strings.ToUpper(strings.TrimSpace(code))}).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePartnerByCode - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Partner
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.ReferralCode,
		&p.CommissionRate,
		&p.Email,
		&p.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPartnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivePartnerByCode - scan partner: %v", ErrScanRow, err)
	}

	return &p, nil
}

// Create создает комиссию бронирования
func (r *Repository) Create(ctx context.Context, c *domain.Commission) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("commissions").
		Columns("booking_id", "partner_id", "rate", "amount", "status").
		Values(c.BookingID, c.PartnerID, c.Rate, c.Amount, c.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrCommissionExists
		}
		return fmt.Errorf("%w: Create - insert commission: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByBooking получает комиссию бронирования
func (r *Repository) GetByBooking(ctx context.Context, bookingID string) (*domain.Commission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"partner_id",
		"rate",
		"amount",
		"status",
		"created_at",
		"updated_at",
	).
		From("commissions").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Commission
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.BookingID,
		&c.PartnerID,
		&c.Rate,
		&c.Amount,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCommissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - scan commission: %v", ErrScanRow, err)
	}

	return &c, nil
}

// CancelByBooking отменяет незакрытую (PENDING/APPROVED) комиссию бронирования
// Возвращает false, если отменять нечего
func (r *Repository) CancelByBooking(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("commissions").
		Set("status", domain.CommissionCancelled).
		Set("updated_at", now).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": []domain.CommissionStatus{domain.CommissionPending, domain.CommissionApproved}}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CancelByBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CancelByBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CancelByBooking - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
