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

// MemberRepository определяет методы для работы с данными участников в хранилище.
type MemberRepository interface {
	// CreateMember сохраняет участника и заполняет его ID и CreatedAt.
	CreateMember(ctx context.Context, member *models.Member) error
	GetMemberByUsername(ctx context.Context, username string) (*models.Member, error)
	GetMemberByID(ctx context.Context, id int64) (*models.Member, error)
}

// postgresMemberRepository реализует MemberRepository для PostgreSQL.
type postgresMemberRepository struct {
	db *sqlx.DB
}

// NewPostgresMemberRepository создает новый экземпляр репозитория участников для PostgreSQL.
func NewPostgresMemberRepository(db *sqlx.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

// CreateMember создает нового участника в базе данных.
// Уникальность имени гарантирует ограничение members_username_key,
// поэтому из двух одновременных регистраций с одним именем успешна только одна.
func (r *postgresMemberRepository) CreateMember(ctx context.Context, member *models.Member) error {
	query := `INSERT INTO members (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, member.Username, member.PasswordHash).
		Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			slog.Info("[Repo] Имя участника уже занято", "username", member.Username)
			return ErrUsernameTaken
		}
		slog.Error("[Repo] Ошибка при создании участника", "username", member.Username, "error", err)
		return fmt.Errorf("ошибка выполнения запроса на создание участника: %w", err)
	}

	slog.Info("[Repo] Участник создан", "username", member.Username, "member_id", member.ID)
	return nil
}

// GetMemberByUsername находит участника по точному (с учетом регистра) имени.
func (r *postgresMemberRepository) GetMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	query := `SELECT id, username, password_hash, created_at FROM members WHERE username=$1`
	var member models.Member

	err := r.db.GetContext(ctx, &member, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		slog.Error("[Repo] Ошибка при поиске участника по имени", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение участника: %w", err)
	}

	return &member, nil
}

// GetMemberByID находит участника по ID.
func (r *postgresMemberRepository) GetMemberByID(ctx context.Context, id int64) (*models.Member, error) {
	query := `SELECT id, username, password_hash, created_at FROM members WHERE id=$1`
	var member models.Member

	err := r.db.GetContext(ctx, &member, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		slog.Error("[Repo] Ошибка при поиске участника по ID", "member_id", id, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение участника: %w", err)
	}

	return &member, nil
}

// Кастомные ошибки репозитория.
var (
	ErrMemberNotFound = errors.New("участник не найден")
	ErrUsernameTaken  = errors.New("имя участника уже занято")
)
