package mocks

import (
	"context"
	"io"

	"github.com/maynagashev/gophboard/server/internal/storage"
	"github.com/stretchr/testify/mock"
)

var _ storage.FileStorage = (*FileStorage)(nil)

// FileStorage - мок storage.FileStorage.
type FileStorage struct {
	mock.Mock
}

func (m *FileStorage) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	args := m.Called(ctx, objectKey, reader, size, contentType)
	return args.Error(0)
}

func (m *FileStorage) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *FileStorage) DeleteFile(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}
