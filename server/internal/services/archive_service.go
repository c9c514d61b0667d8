package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"github.com/maynagashev/gophboard/server/internal/storage"
)

const (
	// Максимальное число сообщений в одном архиве.
	maxArchiveMessages  = 1000
	archiveContentType  = "application/json"
	defaultArchiveLimit = 20
	maxArchiveLimit     = 100
)

// ArchiveService определяет интерфейс для работы с архивами доски.
type ArchiveService interface {
	CreateArchive(ctx context.Context, member *models.Member) (*models.Archive, error)
	ListArchives(ctx context.Context, memberID int64, limit, offset int) ([]models.Archive, error)
	// OpenArchive возвращает содержимое архива; вызывающий должен закрыть reader.
	OpenArchive(ctx context.Context, memberID, archiveID int64) (io.ReadCloser, *models.Archive, error)
}

var _ ArchiveService = (*archiveService)(nil)

type archiveService struct {
	messageRepo repository.MessageRepository
	archiveRepo repository.ArchiveRepository
	files       storage.FileStorage
	now         func() time.Time
}

// NewArchiveService создает сервис архивов.
func NewArchiveService(
	messageRepo repository.MessageRepository,
	archiveRepo repository.ArchiveRepository,
	files storage.FileStorage,
) ArchiveService {
	return &archiveService{
		messageRepo: messageRepo,
		archiveRepo: archiveRepo,
		files:       files,
		now:         time.Now,
	}
}

// CreateArchive сохраняет снимок последних сообщений доски в объектное хранилище.
func (s *archiveService) CreateArchive(ctx context.Context, member *models.Member) (*models.Archive, error) {
	messages, err := s.messageRepo.ListMessages(ctx, maxArchiveMessages, 0)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сообщений для архива: %w", err)
	}

	snapshot := models.ArchiveSnapshot{
		CreatedBy: models.NewMemberResponse(member),
		CreatedAt: s.now().UTC(),
		Messages:  messages,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации архива: %w", err)
	}

	objectKey := storage.ArchiveKey(member.ID)
	size := int64(len(data))
	if err = s.files.UploadFile(ctx, objectKey, bytes.NewReader(data), size, archiveContentType); err != nil {
		return nil, fmt.Errorf("ошибка загрузки архива: %w", err)
	}

	archive := &models.Archive{
		MemberID:     member.ID,
		ObjectKey:    objectKey,
		MessageCount: len(messages),
		SizeBytes:    size,
	}
	if err = s.archiveRepo.CreateArchive(ctx, archive); err != nil {
		// Без записи в БД объект недостижим, удаляем его.
		if delErr := s.files.DeleteFile(ctx, objectKey); delErr != nil {
			slog.Warn("[ArchiveService] Не удалось удалить осиротевший объект",
				"object_key", objectKey, "error", delErr)
		}
		return nil, fmt.Errorf("ошибка сохранения метаданных архива: %w", err)
	}

	slog.Info("[ArchiveService] Архив создан",
		"archive_id", archive.ID, "member_id", member.ID, "messages", archive.MessageCount)
	return archive, nil
}

// ListArchives возвращает архивы участника.
func (s *archiveService) ListArchives(ctx context.Context, memberID int64, limit, offset int) ([]models.Archive, error) {
	if limit <= 0 {
		limit = defaultArchiveLimit
	}
	if limit > maxArchiveLimit {
		limit = maxArchiveLimit
	}
	if offset < 0 {
		offset = 0
	}

	archives, err := s.archiveRepo.ListArchivesByMemberID(ctx, memberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка архивов: %w", err)
	}
	return archives, nil
}

// OpenArchive открывает архив участника для чтения.
func (s *archiveService) OpenArchive(
	ctx context.Context,
	memberID,
	archiveID int64,
) (io.ReadCloser, *models.Archive, error) {
	archive, err := s.archiveRepo.GetArchiveByID(ctx, archiveID)
	if err != nil {
		if errors.Is(err, repository.ErrArchiveNotFound) {
			return nil, nil, ErrArchiveNotFound
		}
		return nil, nil, fmt.Errorf("ошибка получения архива: %w", err)
	}

	if archive.MemberID != memberID {
		slog.Warn("[ArchiveService] Попытка доступа к чужому архиву",
			"archive_id", archiveID, "member_id", memberID)
		return nil, nil, ErrForbidden
	}

	reader, err := s.files.DownloadFile(ctx, archive.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrArchiveNotFound
		}
		return nil, nil, fmt.Errorf("ошибка скачивания архива: %w", err)
	}
	return reader, archive, nil
}

// Ошибки сервиса архивов.
var (
	ErrArchiveNotFound = errors.New("архив не найден")
	ErrForbidden       = errors.New("доступ запрещен")
)
