package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL.
const (
	pgUniqueViolationCode = "23505"
)

const connectTimeout = 10 * time.Second

// PoolConfig - параметры пула соединений.
// Доска в основном читает ленту, поэтому простаивающих соединений держим меньше, чем открытых.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig возвращает параметры пула по умолчанию.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// NewPostgresDB открывает пул соединений к PostgreSQL и проверяет его пингом.
func NewPostgresDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return NewPostgresDBWithPool(ctx, dsn, DefaultPoolConfig())
}

// NewPostgresDBWithPool - то же, что NewPostgresDB, с явными параметрами пула.
func NewPostgresDBWithPool(ctx context.Context, dsn string, pool PoolConfig) (*sqlx.DB, error) {
	slog.Info("[DB] Подключение к PostgreSQL...")

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("[DB] Подключение установлено", "max_open_conns", pool.MaxOpenConns)
	return db, nil
}

// isUniqueViolation сообщает, что запрос нарушил ограничение уникальности.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}
