package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/gophboard/models"
)

// ArchiveRepository определяет методы для работы с метаданными архивов доски.
type ArchiveRepository interface {
	CreateArchive(ctx context.Context, archive *models.Archive) error
	ListArchivesByMemberID(ctx context.Context, memberID int64, limit, offset int) ([]models.Archive, error)
	GetArchiveByID(ctx context.Context, id int64) (*models.Archive, error)
}

// postgresArchiveRepository реализует ArchiveRepository для PostgreSQL.
type postgresArchiveRepository struct {
	db *sqlx.DB
}

// NewPostgresArchiveRepository создает новый экземпляр репозитория архивов.
func NewPostgresArchiveRepository(db *sqlx.DB) ArchiveRepository {
	return &postgresArchiveRepository{db: db}
}

// CreateArchive создает запись об архиве и заполняет ID и CreatedAt.
func (r *postgresArchiveRepository) CreateArchive(ctx context.Context, archive *models.Archive) error {
	query := `INSERT INTO archives (member_id, object_key, message_count, size_bytes)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		archive.MemberID, archive.ObjectKey, archive.MessageCount, archive.SizeBytes,
	).Scan(&archive.ID, &archive.CreatedAt)
	if err != nil {
		slog.Error("[ArchiveRepo] Ошибка при создании архива", "object_key", archive.ObjectKey, "error", err)
		return fmt.Errorf("ошибка выполнения запроса на создание архива: %w", err)
	}

	slog.Info("[ArchiveRepo] Архив создан", "archive_id", archive.ID, "member_id", archive.MemberID)
	return nil
}

// ListArchivesByMemberID возвращает архивы участника с пагинацией (сначала новые).
func (r *postgresArchiveRepository) ListArchivesByMemberID(
	ctx context.Context,
	memberID int64,
	limit,
	offset int,
) ([]models.Archive, error) {
	query := `SELECT id, member_id, object_key, message_count, size_bytes, created_at
	          FROM archives
	          WHERE member_id=$1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2 OFFSET $3`

	archives := make([]models.Archive, 0, limit)
	err := r.db.SelectContext(ctx, &archives, query, memberID, limit, offset)
	if err != nil {
		slog.Error("[ArchiveRepo] Ошибка при получении списка архивов", "member_id", memberID, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка архивов: %w", err)
	}
	return archives, nil
}

// GetArchiveByID находит архив по ID.
func (r *postgresArchiveRepository) GetArchiveByID(ctx context.Context, id int64) (*models.Archive, error) {
	query := `SELECT id, member_id, object_key, message_count, size_bytes, created_at` +
		` FROM archives WHERE id=$1`
	var archive models.Archive

	err := r.db.GetContext(ctx, &archive, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArchiveNotFound
		}
		slog.Error("[ArchiveRepo] Ошибка при поиске архива", "archive_id", id, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение архива: %w", err)
	}
	return &archive, nil
}

// Кастомная ошибка репозитория архивов.
var (
	ErrArchiveNotFound = errors.New("архив не найден")
)
