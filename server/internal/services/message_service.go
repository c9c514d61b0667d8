package services

import (
	"context"
	"fmt"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
)

// Параметры пагинации списка сообщений.
const (
	DefaultMessagesLimit = 50
	MaxMessagesLimit     = 200
)

// MessageService определяет интерфейс для работы с сообщениями доски.
type MessageService interface {
	ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error)
	PostMessage(ctx context.Context, author *models.Member, text string) (*models.Message, error)
}

var _ MessageService = (*messageService)(nil)

type messageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService создает сервис сообщений.
func NewMessageService(messageRepo repository.MessageRepository) MessageService {
	return &messageService{messageRepo: messageRepo}
}

// ListMessages возвращает сообщения от новых к старым.
// Недопустимые limit и offset приводятся к значениям по умолчанию.
func (s *messageService) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultMessagesLimit
	}
	if limit > MaxMessagesLimit {
		limit = MaxMessagesLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.ListMessages(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сообщений: %w", err)
	}
	return messages, nil
}

// PostMessage публикует сообщение от имени участника.
func (s *messageService) PostMessage(ctx context.Context, author *models.Member, text string) (*models.Message, error) {
	message := &models.Message{
		MemberID:       author.ID,
		MemberUsername: author.Username,
		Text:           text,
	}
	if err := s.messageRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("ошибка публикации сообщения: %w", err)
	}
	return message, nil
}
