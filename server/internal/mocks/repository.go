package mocks

import (
	"context"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.MemberRepository  = (*MemberRepository)(nil)
	_ repository.MessageRepository = (*MessageRepository)(nil)
	_ repository.ArchiveRepository = (*ArchiveRepository)(nil)
)

// MemberRepository - мок repository.MemberRepository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) CreateMember(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepository) GetMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	args := m.Called(ctx, username)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

func (m *MemberRepository) GetMemberByID(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

// MessageRepository - мок repository.MessageRepository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepository) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, limit, offset)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

// ArchiveRepository - мок repository.ArchiveRepository.
type ArchiveRepository struct {
	mock.Mock
}

func (m *ArchiveRepository) CreateArchive(ctx context.Context, archive *models.Archive) error {
	args := m.Called(ctx, archive)
	return args.Error(0)
}

func (m *ArchiveRepository) ListArchivesByMemberID(
	ctx context.Context,
	memberID int64,
	limit,
	offset int,
) ([]models.Archive, error) {
	args := m.Called(ctx, memberID, limit, offset)
	archives, _ := args.Get(0).([]models.Archive)
	return archives, args.Error(1)
}

func (m *ArchiveRepository) GetArchiveByID(ctx context.Context, id int64) (*models.Archive, error) {
	args := m.Called(ctx, id)
	archive, _ := args.Get(0).(*models.Archive)
	return archive, args.Error(1)
}
