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
	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archiveColumns = []string{"id", "member_id", "object_key", "message_count", "size_bytes", "created_at"}

func setupArchiveRepoMock(t *testing.T) (repository.ArchiveRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewPostgresArchiveRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateArchive(t *testing.T) {
	now := time.Now().UTC()
	archive := &models.Archive{MemberID: 1, ObjectKey: "archives/1/a.json", MessageCount: 3, SizeBytes: 120}

	t.Run("Успешное создание", func(t *testing.T) {
		repo, mock := setupArchiveRepoMock(t)
		mock.ExpectQuery(`INSERT INTO archives`).
			WithArgs(archive.MemberID, archive.ObjectKey, archive.MessageCount, archive.SizeBytes).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))

		a := *archive
		require.NoError(t, repo.CreateArchive(context.Background(), &a))
		assert.Equal(t, int64(5), a.ID)
		assert.Equal(t, now, a.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		repo, mock := setupArchiveRepoMock(t)
		mock.ExpectQuery(`INSERT INTO archives`).WillReturnError(errors.New("database error"))

		a := *archive
		err := repo.CreateArchive(context.Background(), &a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка выполнения запроса")
	})
}

func TestListArchivesByMemberID(t *testing.T) {
	now := time.Now().UTC()
	repo, mock := setupArchiveRepoMock(t)
	mock.ExpectQuery(`FROM archives`).WithArgs(int64(1), 20, 0).
		WillReturnRows(sqlmock.NewRows(archiveColumns).
			AddRow(int64(2), int64(1), "archives/1/b.json", 4, int64(200), now).
			AddRow(int64(1), int64(1), "archives/1/a.json", 3, int64(120), now.Add(-time.Hour)))

	archives, err := repo.ListArchivesByMemberID(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, int64(2), archives[0].ID)
	assert.Equal(t, 4, archives[0].MessageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetArchiveByID(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, member_id, object_key, message_count, size_bytes, created_at FROM archives WHERE id=$1`)
	now := time.Now().UTC()

	t.Run("Успешный поиск", func(t *testing.T) {
		repo, mock := setupArchiveRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(archiveColumns).
				AddRow(int64(2), int64(1), "archives/1/b.json", 4, int64(200), now))

		archive, err := repo.GetArchiveByID(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "archives/1/b.json", archive.ObjectKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Архив не найден", func(t *testing.T) {
		repo, mock := setupArchiveRepoMock(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

		archive, err := repo.GetArchiveByID(context.Background(), 9)
		assert.Nil(t, archive)
		assert.ErrorIs(t, err, repository.ErrArchiveNotFound)
	})
}
