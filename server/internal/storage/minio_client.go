package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const archivePrefix = "archives"

// ArchiveKey возвращает новый ключ объекта для архива участника:
// archives/<member_id>/<uuid>.json. Архивы одного участника лежат под общим префиксом.
func ArchiveKey(memberID int64) string {
	return strings.Join([]string{archivePrefix, strconv.FormatInt(memberID, 10), uuid.NewString() + ".json"}, "/")
}

// FileStorage определяет интерфейс для взаимодействия с объектным хранилищем.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectKey string) error
}

// MinioClient реализует FileStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string // Имя бакета для архивов доски
	Region          string
}

// NewMinioClient создает клиент MinIO и при необходимости создает бакет.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	slog.Info("Инициализация клиента MinIO", "endpoint", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		slog.Info("Бакет не найден, создаем", "bucket", cfg.BucketName)
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
	}

	slog.Info("Клиент MinIO инициализирован", "bucket", cfg.BucketName)
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
	}, nil
}

// UploadFile загружает объект в MinIO.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	uploadInfo, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		slog.Error("[Minio] Ошибка загрузки объекта", "object_key", objectKey, "error", err)
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	slog.Info("[Minio] Объект загружен", "object_key", objectKey, "size", uploadInfo.Size, "etag", uploadInfo.ETag)
	return nil
}

// DownloadFile скачивает объект из MinIO.
// Возвращает io.ReadCloser, который нужно закрыть после использования.
func (c *MinioClient) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	object, err := c.client.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.mapError(objectKey, err)
	}

	// GetObject ленивый: отсутствие объекта обнаруживается только при Stat/Read.
	if _, err = object.Stat(); err != nil {
		_ = object.Close()
		return nil, c.mapError(objectKey, err)
	}

	return object, nil
}

// DeleteFile удаляет объект из MinIO.
func (c *MinioClient) DeleteFile(ctx context.Context, objectKey string) error {
	if err := c.client.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		slog.Error("[Minio] Ошибка удаления объекта", "object_key", objectKey, "error", err)
		return fmt.Errorf("ошибка удаления файла из MinIO: %w", err)
	}
	return nil
}

func (c *MinioClient) mapError(objectKey string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		slog.Info("[Minio] Объект не найден", "object_key", objectKey, "bucket", c.bucketName)
		return ErrObjectNotFound
	}
	slog.Error("[Minio] Ошибка получения объекта", "object_key", objectKey, "error", err)
	return fmt.Errorf("ошибка получения файла из MinIO: %w", err)
}

// Кастомная ошибка хранилища.
var (
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)
