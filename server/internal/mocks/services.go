package mocks

import (
	"context"
	"io"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/services"
	"github.com/stretchr/testify/mock"
)

var (
	_ services.AuthService    = (*AuthService)(nil)
	_ services.MessageService = (*MessageService)(nil)
	_ services.ArchiveService = (*ArchiveService)(nil)
	_ services.TokenIssuer    = (*TokenIssuer)(nil)
)

// AuthService - мок services.AuthService.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, username, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, username, password)
	result, _ := args.Get(0).(*services.AuthResult)
	return result, args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, username, password)
	result, _ := args.Get(0).(*services.AuthResult)
	return result, args.Error(1)
}

// MessageService - мок services.MessageService.
type MessageService struct {
	mock.Mock
}

func (m *MessageService) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, limit, offset)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

func (m *MessageService) PostMessage(
	ctx context.Context,
	author *models.Member,
	text string,
) (*models.Message, error) {
	args := m.Called(ctx, author, text)
	message, _ := args.Get(0).(*models.Message)
	return message, args.Error(1)
}

// ArchiveService - мок services.ArchiveService.
type ArchiveService struct {
	mock.Mock
}

func (m *ArchiveService) CreateArchive(ctx context.Context, member *models.Member) (*models.Archive, error) {
	args := m.Called(ctx, member)
	archive, _ := args.Get(0).(*models.Archive)
	return archive, args.Error(1)
}

func (m *ArchiveService) ListArchives(
	ctx context.Context,
	memberID int64,
	limit,
	offset int,
) ([]models.Archive, error) {
	args := m.Called(ctx, memberID, limit, offset)
	archives, _ := args.Get(0).([]models.Archive)
	return archives, args.Error(1)
}

func (m *ArchiveService) OpenArchive(
	ctx context.Context,
	memberID,
	archiveID int64,
) (io.ReadCloser, *models.Archive, error) {
	args := m.Called(ctx, memberID, archiveID)
	rc, _ := args.Get(0).(io.ReadCloser)
	archive, _ := args.Get(1).(*models.Archive)
	return rc, archive, args.Error(2)
}

// TokenIssuer - мок services.TokenIssuer.
type TokenIssuer struct {
	mock.Mock
}

func (m *TokenIssuer) Issue(member *models.Member) (string, error) {
	args := m.Called(member)
	return args.String(0), args.Error(1)
}
