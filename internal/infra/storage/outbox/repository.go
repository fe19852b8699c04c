package outbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

var messageColumns = []string{
	"id",
	"kind",
	"recipient",
	"subject",
	"body",
	"status",
	"attempts",
	"last_error",
	"next_attempt_at",
	"created_at",
	"sent_at",
}

// Repository репозиторий исходящей очереди писем
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория очереди
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue ставит письмо в очередь; выполняется в транзакции вызывающего, если она есть
func (r *Repository) Enqueue(ctx context.Context, email domain.Email, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("email_outbox").
		Columns("kind", "recipient", "subject", "body", "status", "attempts", "next_attempt_at").
		Values(email.Kind, email.To, email.Subject, email.Body, domain.OutboxPending, 0, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: Enqueue - insert message: %v", ErrExecQuery, err)
	}

	return id, nil
}

// ClaimDue захватывает до limit писем, которым пора уйти
// Захваченные письма сдвигаются на leaseUntil, поэтому параллельные воркеры их не видят,
// а при падении воркера письмо вернется в работу после истечения аренды
func (r *Repository) ClaimDue(ctx context.Context, limit int, now, leaseUntil time.Time) ([]*domain.OutboxMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	subQuery, subArgs, err := squirrel.Select("id").
		From("email_outbox").
		Where(squirrel.Eq{"status": domain.OutboxPending}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at ASC", "id ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - build sub query: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("email_outbox").
		Set("next_attempt_at", leaseUntil).
		Where("id IN ("+subQuery+")", subArgs...).
		Suffix("RETURNING " + strings.Join(messageColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.OutboxMessage, 0, limit)
	for rows.Next() {
		var m domain.OutboxMessage
		err := rows.Scan(
			&m.ID,
			&m.Email.Kind,
			&m.Email.To,
			&m.Email.Subject,
			&m.Email.Body,
			&m.Status,
			&m.Attempts,
			&m.LastError,
			&m.NextAttemptAt,
			&m.CreatedAt,
			&m.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ClaimDue - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}

// MarkSent отмечает письмо отправленным
func (r *Repository) MarkSent(ctx context.Context, id int64, attempts int, at time.Time) error {
	return r.update(ctx, "MarkSent", id, map[string]interface{}{
		"status":   domain.OutboxSent,
		"attempts": attempts,
		"sent_at":  at,
	})
}

// MarkRetry возвращает письмо в очередь со следующей попыткой в nextAttemptAt
func (r *Repository) MarkRetry(ctx context.Context, id int64, attempts int, lastError string, nextAttemptAt time.Time) error {
	return r.update(ctx, "MarkRetry", id, map[string]interface{}{
		"status":          domain.OutboxPending,
		"attempts":        attempts,
		"last_error":      lastError,
		"next_attempt_at": nextAttemptAt,
	})
}

// MarkFailed окончательно отмечает письмо неотправленным
func (r *Repository) MarkFailed(ctx context.Context, id int64, attempts int, lastError string) error {
	return r.update(ctx, "MarkFailed", id, map[string]interface{}{
		"status":     domain.OutboxFailed,
		"attempts":   attempts,
		"last_error": lastError,
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("email_outbox").
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
