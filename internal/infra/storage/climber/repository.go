package climber

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

var detailsColumns = []string{
	"booking_id",
	"climber_index",
	"name",
	"email",
	"phone",
	"nationality",
	"passport_number",
	"date_of_birth",
	"dietary_requirements",
	"medical_conditions",
	"is_complete",
	"completed_at",
	"updated_at",
}

// upsertSuffix слияние: name/email и флаг завершенности перезаписываются,
// необязательные поля сохраняют старое значение, если новое не передано
const upsertSuffix = `ON CONFLICT (booking_id, climber_index) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = COALESCE(EXCLUDED.phone, climber_details.phone),
	nationality = COALESCE(EXCLUDED.nationality, climber_details.nationality),
	passport_number = COALESCE(EXCLUDED.passport_number, climber_details.passport_number),
	date_of_birth = COALESCE(EXCLUDED.date_of_birth, climber_details.date_of_birth),
	dietary_requirements = COALESCE(EXCLUDED.dietary_requirements, climber_details.dietary_requirements),
	medical_conditions = COALESCE(EXCLUDED.medical_conditions, climber_details.medical_conditions),
	is_complete = EXCLUDED.is_complete,
	completed_at = EXCLUDED.completed_at,
	updated_at = EXCLUDED.updated_at`

// Repository репозиторий данных участников (ключ: booking_id + climber_index)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория данных участников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert атомарно сливает данные участника с сохраненными
// onlyIfIncomplete: обновление применяется, только если запись ещё не завершена,
// иначе возвращается ErrAlreadyCompleted (первая отправка по токену выигрывает)
func (r *Repository) Upsert(ctx context.Context, d *domain.ClimberDetails, onlyIfIncomplete bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	suffix := upsertSuffix
	if onlyIfIncomplete {
		suffix += "\n\tWHERE climber_details.is_complete = FALSE"
	}

	query, args, err := psqlbuilder.Insert("climber_details").
		Columns(detailsColumns...).
		Values(
			d.BookingID,
			d.ClimberIndex,
			d.Name,
			d.Email,
			d.Phone,
			d.Nationality,
			d.PassportNumber,
			d.DateOfBirth,
			d.DietaryRequirements,
			d.MedicalConditions,
			d.IsComplete,
			d.CompletedAt,
			d.UpdatedAt,
		).
		Suffix(suffix).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Upsert - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyCompleted
	}

	return nil
}

// Get получает данные одного участника
func (r *Repository) Get(ctx context.Context, bookingID string, index int) (*domain.ClimberDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(detailsColumns...).
		From("climber_details").
		Where(squirrel.Eq{"booking_id": bookingID, "climber_index": index}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	d, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrDetailsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan details: %v", ErrScanRow, err)
	}

	return d, nil
}

// GetRoster получает данные всех участников бронирования
func (r *Repository) GetRoster(ctx context.Context, bookingID string) (domain.ClimberRoster, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(detailsColumns...).
		From("climber_details").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("climber_index ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRoster - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoster - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	roster := make(domain.ClimberRoster)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRoster - scan row: %v", ErrScanRow, err)
		}
		roster[d.ClimberIndex] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRoster - rows error: %v", ErrScanRow, err)
	}

	return roster, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetails(row rowScanner) (*domain.ClimberDetails, error) {
	var d domain.ClimberDetails
	var updatedAt sql.NullTime

	err := row.Scan(
		&d.BookingID,
		&d.ClimberIndex,
		&d.Name,
		&d.Email,
		&d.Phone,
		&d.Nationality,
		&d.PassportNumber,
		&d.DateOfBirth,
		&d.DietaryRequirements,
		&d.MedicalConditions,
		&d.IsComplete,
		&d.CompletedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.UpdatedAt = updatedAt.Time
	return &d, nil
}
