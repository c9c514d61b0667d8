package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maynagashev/gophboard/server/internal/repository/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp вынесен в переменную, чтобы подменять его в тестах.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate применяет встроенные миграции схемы к базе данных.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("ошибка выбора диалекта миграций: %w", err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	slog.Info("Миграции БД применены")
	return nil
}
