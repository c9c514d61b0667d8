package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/repository"
)

const bearerScheme = "bearer"

// TokenVerifier проверяет токен и возвращает его утверждения.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// MemberFinder ищет участника по ID.
// Если участника нет, возвращает repository.ErrMemberNotFound.
type MemberFinder interface {
	GetMemberByID(ctx context.Context, id int64) (*models.Member, error)
}

// Identity - аутентифицированный участник текущего запроса.
type Identity struct {
	Member *models.Member
	Token  string // Исходный токен из заголовка
}

// Gate проверяет заголовок Authorization входящего запроса.
type Gate struct {
	verifier TokenVerifier
	members  MemberFinder
}

// NewGate создает шлюз аутентификации.
func NewGate(verifier TokenVerifier, members MemberFinder) *Gate {
	return &Gate{verifier: verifier, members: members}
}

// Authenticate разбирает значение заголовка Authorization.
//
// Пустой заголовок - не ошибка: возвращается (nil, nil), и запрос
// продолжается анонимно. Любой другой исход без участника - отказ
// (*Error) или внутренняя ошибка хранилища. Повторных попыток нет.
func (g *Gate) Authenticate(ctx context.Context, header string) (*Identity, error) {
	if header == "" {
		return nil, nil //nolint:nilnil // отсутствие заголовка - отдельный исход
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 { //nolint:mnd // схема и токен
		return nil, ErrMalformedHeader
	}
	if !strings.EqualFold(parts[0], bearerScheme) {
		return nil, ErrUnsupportedScheme
	}

	token := parts[1]
	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.MemberID <= 0 {
		return nil, ErrMissingSubject
	}

	member, err := g.members.GetMemberByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, newError(KindMemberNotFound, err)
		}
		return nil, fmt.Errorf("ошибка получения участника %d: %w", claims.MemberID, err)
	}

	return &Identity{Member: member, Token: token}, nil
}
