package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/gophboard/models"
)

// MessageRepository определяет методы для работы с сообщениями доски.
type MessageRepository interface {
	// CreateMessage сохраняет сообщение и заполняет его ID и CreatedAt.
	CreateMessage(ctx context.Context, message *models.Message) error
	// ListMessages возвращает сообщения от новых к старым.
	ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error)
}

type postgresMessageRepository struct {
	db *sqlx.DB
}

// NewPostgresMessageRepository создает репозиторий сообщений для PostgreSQL.
func NewPostgresMessageRepository(db *sqlx.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	query := `INSERT INTO messages (member_id, text) VALUES ($1, $2) RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, message.MemberID, message.Text).
		Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		slog.Error("[MessageRepo] Ошибка при создании сообщения", "member_id", message.MemberID, "error", err)
		return fmt.Errorf("ошибка выполнения запроса на создание сообщения: %w", err)
	}
	return nil
}

func (r *postgresMessageRepository) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	query := `SELECT m.id, m.member_id, mb.username AS member_username, m.text, m.created_at
	          FROM messages m
	          JOIN members mb ON mb.id = m.member_id
	          ORDER BY m.created_at DESC, m.id DESC
	          LIMIT $1 OFFSET $2`

	messages := make([]models.Message, 0, limit)
	if err := r.db.SelectContext(ctx, &messages, query, limit, offset); err != nil {
		slog.Error("[MessageRepo] Ошибка при получении списка сообщений", "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение сообщений: %w", err)
	}
	return messages, nil
}
