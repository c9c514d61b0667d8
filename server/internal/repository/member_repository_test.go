package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberColumns = []string{"id", "username", "password_hash", "created_at"}

// Вспомогательная функция для создания мока БД и репозитория.
func setupMemberRepoMock(t *testing.T) (repository.MemberRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewPostgresMemberRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateMember(t *testing.T) {
	insertQuery := regexp.QuoteMeta(
		`INSERT INTO members (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`)
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedID  int64
		expectedErr error
	}{
		{
			name: "Успешное создание",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt)
				mock.ExpectQuery(insertQuery).WithArgs("alice", "hash").WillReturnRows(rows)
			},
			expectedID: 7,
		},
		{
			name: "Имя участника занято",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insertQuery).WithArgs("alice", "hash").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			expectedErr: repository.ErrUsernameTaken,
		},
		{
			name: "Ошибка базы данных",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insertQuery).WithArgs("alice", "hash").
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("ошибка выполнения запроса"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupMemberRepoMock(t)
			tt.mockSetup(mock)

			member := &models.Member{Username: "alice", PasswordHash: "hash"}
			err := repo.CreateMember(context.Background(), member)

			switch {
			case tt.expectedErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, member.ID)
				assert.Equal(t, createdAt, member.CreatedAt)
			case errors.Is(tt.expectedErr, repository.ErrUsernameTaken):
				assert.ErrorIs(t, err, repository.ErrUsernameTaken)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr.Error())
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "Не все ожидания мока были выполнены")
		})
	}
}

func TestGetMemberByUsername(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, username, password_hash, created_at FROM members WHERE username=$1`)
	now := time.Now().UTC()
	expected := &models.Member{ID: 1, Username: "alice", PasswordHash: "hash", CreatedAt: now}

	t.Run("Успешный поиск", func(t *testing.T) {
		repo, mock := setupMemberRepoMock(t)
		mock.ExpectQuery(query).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(int64(1), "alice", "hash", now))

		member, err := repo.GetMemberByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, expected, member)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Участник не найден", func(t *testing.T) {
		repo, mock := setupMemberRepoMock(t)
		mock.ExpectQuery(query).WithArgs("Alice").WillReturnError(sql.ErrNoRows)

		member, err := repo.GetMemberByUsername(context.Background(), "Alice")
		assert.Nil(t, member)
		assert.ErrorIs(t, err, repository.ErrMemberNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		repo, mock := setupMemberRepoMock(t)
		mock.ExpectQuery(query).WithArgs("alice").WillReturnError(errors.New("database error"))

		member, err := repo.GetMemberByUsername(context.Background(), "alice")
		assert.Nil(t, member)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrMemberNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetMemberByID(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, username, password_hash, created_at FROM members WHERE id=$1`)
	now := time.Now().UTC()

	t.Run("Успешный поиск", func(t *testing.T) {
		repo, mock := setupMemberRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(int64(42), "bob", "hash", now))

		member, err := repo.GetMemberByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), member.ID)
		assert.Equal(t, "bob", member.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Участник не найден", func(t *testing.T) {
		repo, mock := setupMemberRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

		member, err := repo.GetMemberByID(context.Background(), 404)
		assert.Nil(t, member)
		assert.ErrorIs(t, err, repository.ErrMemberNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
