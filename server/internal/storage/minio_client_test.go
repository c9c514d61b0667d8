package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/maynagashev/gophboard/server/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест требует запущенного MinIO (например, из docker-compose).
func TestMinioClient_RoundTrip(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Пропуск теста: переменная окружения MINIO_ENDPOINT не установлена")
	}

	ctx := context.Background()
	client, err := storage.NewMinioClient(ctx, storage.MinioConfig{
		Endpoint:        endpoint,
		AccessKeyID:     os.Getenv("MINIO_USER"),
		SecretAccessKey: os.Getenv("MINIO_PASSWORD"),
		BucketName:      "gophboard-test",
	})
	require.NoError(t, err)

	key := "test/" + uuid.NewString() + ".json"
	payload := []byte(`{"messages":[]}`)
	require.NoError(t, client.UploadFile(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"))

	rc, err := client.DownloadFile(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)

	require.NoError(t, client.DeleteFile(ctx, key))

	_, err = client.DownloadFile(ctx, key)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestArchiveKey(t *testing.T) {
	first := storage.ArchiveKey(42)
	second := storage.ArchiveKey(42)

	assert.True(t, strings.HasPrefix(first, "archives/42/"), first)
	assert.True(t, strings.HasSuffix(first, ".json"), first)
	assert.NotEqual(t, first, second, "Ключи архивов не должны повторяться")

	id := strings.TrimSuffix(strings.TrimPrefix(first, "archives/42/"), ".json")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}
