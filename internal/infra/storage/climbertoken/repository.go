package climbertoken

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

// Завершенность токена берется из climber_details того же индекса
const detailsJoin = "climber_details cd ON cd.booking_id = t.booking_id AND cd.climber_index = t.climber_index"

var tokenColumns = []string{
	"t.id",
	"t.booking_id",
	"t.code",
	"t.climber_index",
	"t.climber_name",
	"t.email",
	"t.expires_at",
	"t.reminder_sent_at",
	"t.final_reminder_sent_at",
	"t.created_at",
	"COALESCE(cd.is_complete, FALSE)",
	"cd.completed_at",
}

// Repository репозиторий токенов участников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория токенов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent создает токен, если для (booking_id, climber_index) его ещё нет
// Возвращает false, если токен уже существует (конфликт по уникальному ключу)
func (r *Repository) CreateIfAbsent(ctx context.Context, token *domain.ClimberToken) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("climber_tokens").
		Columns(
			"booking_id",
			"code",
			"climber_index",
			"climber_name",
			"email",
			"expires_at",
		).
		Values(
			token.BookingID,
			token.Code,
			token.ClimberIndex,
			token.ClimberName,
			token.Email,
			token.ExpiresAt,
		).
		Suffix("ON CONFLICT (booking_id, climber_index) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&token.ID, &token.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - insert token: %v", ErrExecQuery, err)
	}

	return true, nil
}

// GetByCode получает токен по коду
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.ClimberToken, error) {
	return r.getOne(ctx, "GetByCode", squirrel.Eq{"t.code": code})
}

// GetByBookingAndIndex получает токен участника бронирования
func (r *Repository) GetByBookingAndIndex(ctx context.Context, bookingID string, index int) (*domain.ClimberToken, error) {
	return r.getOne(ctx, "GetByBookingAndIndex", squirrel.Eq{"t.booking_id": bookingID, "t.climber_index": index})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.ClimberToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tokenColumns...).
		From("climber_tokens t").
		LeftJoin(detailsJoin).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	token, err := scanToken(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan token: %v", ErrScanRow, op, err)
	}

	return token, nil
}

// ListByBooking получает все токены бронирования по возрастанию индекса
func (r *Repository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.ClimberToken, error) {
	query, args, err := psqlbuilder.Select(tokenColumns...).
		From("climber_tokens t").
		LeftJoin(detailsJoin).
		Where(squirrel.Eq{"t.booking_id": bookingID}).
		OrderBy("t.climber_index ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListByBooking", query, args)
}

// ListForReminder получает токены, которым пора отправить напоминание стадии filter.Stage:
// напоминание не отправлялось, email указан, данные не заполнены, срок в окне
func (r *Repository) ListForReminder(ctx context.Context, filter domain.TokenReminderFilter) ([]*domain.ClimberToken, error) {
	column, err := reminderColumn(filter.Stage)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Select(tokenColumns...).
		From("climber_tokens t").
		LeftJoin(detailsJoin).
		Where(squirrel.Eq{"t." + column: nil}).
		Where(squirrel.NotEq{"t.email": nil}).
		Where(squirrel.NotEq{"t.email": ""}).
		Where("COALESCE(cd.is_complete, FALSE) = FALSE").
		Where(squirrel.GtOrEq{"t.expires_at": filter.ExpiresAfter}).
		Where(squirrel.LtOrEq{"t.expires_at": filter.ExpiresBefore}).
		OrderBy("t.expires_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForReminder - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListForReminder", query, args)
}

func (r *Repository) list(ctx context.Context, op, query string, args []interface{}) ([]*domain.ClimberToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	tokens := make([]*domain.ClimberToken, 0)
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return tokens, nil
}

// UpdateEmail обновляет email токена
func (r *Repository) UpdateEmail(ctx context.Context, id int64, email string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("climber_tokens").
		Set("email", email).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateEmail - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateEmail", query, args, ErrTokenNotFound)
}

// Delete удаляет токен, принадлежащий бронированию
func (r *Repository) Delete(ctx context.Context, bookingID string, tokenID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("climber_tokens").
		Where(squirrel.Eq{"id": tokenID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Delete", query, args, ErrTokenNotFound)
}

// MarkReminderSent отмечает отправку напоминания стадии stage
// Отметка ставится только один раз: повторный вызов вернет ErrReminderAlreadySent
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, stage domain.ReminderStage, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	column, err := reminderColumn(stage)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("climber_tokens").
		Set(column, at).
		Where(squirrel.Eq{"id": id, column: nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkReminderSent", query, args, ErrReminderAlreadySent)
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}, notAffected error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notAffected
	}

	return nil
}

func reminderColumn(stage domain.ReminderStage) (string, error) {
	switch stage {
	case domain.ReminderSevenDays:
		return "reminder_sent_at", nil
	case domain.ReminderThreeDays:
		return "final_reminder_sent_at", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownReminderStage, stage)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanToken(row rowScanner) (*domain.ClimberToken, error) {
	var t domain.ClimberToken

	err := row.Scan(
		&t.ID,
		&t.BookingID,
		&t.Code,
		&t.ClimberIndex,
		&t.ClimberName,
		&t.Email,
		&t.ExpiresAt,
		&t.ReminderSentAt,
		&t.FinalReminderSentAt,
		&t.CreatedAt,
		&t.IsCompleted,
		&t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
