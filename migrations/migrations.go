package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed 001_init.up.sql
var initUp string

//go:embed 001_init.down.sql
var initDown string

// Executor минимальный интерфейс для выполнения DDL
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// UpSQL возвращает схему базы данных
func UpSQL() string {
	return initUp
}

// Apply создает недостающие таблицы и индексы; повторный запуск безопасен
func Apply(ctx context.Context, db Executor) error {
	if _, err := db.ExecContext(ctx, initUp); err != nil {
		return fmt.Errorf("migrations: apply 001_init: %w", err)
	}
	return nil
}

// Rollback удаляет все таблицы схемы
func Rollback(ctx context.Context, db Executor) error {
	if _, err := db.ExecContext(ctx, initDown); err != nil {
		return fmt.Errorf("migrations: rollback 001_init: %w", err)
	}
	return nil
}
