package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService определяет интерфейс для сервиса регистрации и входа.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
}

// TokenIssuer выпускает токен доступа для участника.
type TokenIssuer interface {
	Issue(member *models.Member) (string, error)
}

// AuthResult - результат успешной регистрации или входа.
type AuthResult struct {
	Token  string
	Member *models.Member
}

// AuthOption настраивает authService.
type AuthOption func(*authService)

// WithPasswordCost задает стоимость bcrypt (по умолчанию bcrypt.DefaultCost).
func WithPasswordCost(cost int) AuthOption {
	return func(s *authService) {
		s.passwordCost = cost
	}
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	memberRepo   repository.MemberRepository
	issuer       TokenIssuer
	passwordCost int

	// Хеш-заглушка для сравнения при входе несуществующего участника,
	// чтобы время ответа не выдавало, существует ли имя.
	dummyHashOnce sync.Once
	dummyHash     []byte
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(memberRepo repository.MemberRepository, issuer TokenIssuer, opts ...AuthOption) AuthService {
	s := &authService{
		memberRepo:   memberRepo,
		issuer:       issuer,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register регистрирует нового участника и выпускает для него токен.
func (s *authService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	// Предварительная проверка; окончательно уникальность гарантирует ограничение в БД.
	_, err := s.memberRepo.GetMemberByUsername(ctx, username)
	switch {
	case err == nil:
		slog.Info("[AuthService] Попытка регистрации с занятым именем", "username", username)
		return nil, ErrUsernameTaken
	case !errors.Is(err, repository.ErrMemberNotFound):
		return nil, fmt.Errorf("ошибка проверки имени участника: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	member := &models.Member{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err = s.memberRepo.CreateMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			slog.Info("[AuthService] Имя заняли параллельной регистрацией", "username", username)
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("ошибка создания участника: %w", err)
	}

	token, err := s.issuer.Issue(member)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска токена: %w", err)
	}

	slog.Info("[AuthService] Участник зарегистрирован", "username", username, "member_id", member.ID)
	return &AuthResult{Token: token, Member: member}, nil
}

// Login проверяет учетные данные и выпускает токен.
// Несуществующее имя и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	member, err := s.memberRepo.GetMemberByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
			slog.Info("[AuthService] Неудачная попытка входа", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка поиска участника: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		slog.Info("[AuthService] Неудачная попытка входа", "username", username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(member)
	if err != nil {
		return nil, fmt.Errorf("ошибка выпуска токена: %w", err)
	}

	slog.Info("[AuthService] Участник вошел", "username", username, "member_id", member.ID)
	return &AuthResult{Token: token, Member: member}, nil
}

func (s *authService) getDummyHash() []byte {
	s.dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("gophboard-dummy-password"), s.passwordCost)
		if err != nil {
			slog.Error("[AuthService] Не удалось сгенерировать хеш-заглушку", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrUsernameTaken      = errors.New("участник с таким именем уже существует")
)
