package newsletter

import (
	"context"
	"fmt"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/psqlbuilder"
)

// Repository репозиторий подписчиков рассылки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписчиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Subscribe подписывает email на рассылку
// Повторная подписка ничего не меняет; возвращает true, если подписчик добавлен
func (r *Repository) Subscribe(ctx context.Context, s *domain.NewsletterSubscriber) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("newsletter_subscribers").
		Columns("email", "name", "source").
		Values(domain.NormalizeEmail(s.Email), s.Name, s.Source).
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Subscribe - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Subscribe - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Subscribe - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
