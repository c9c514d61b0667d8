package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/gophboard/models"
)

// DefaultTokenTTL - срок действия токена по умолчанию.
const DefaultTokenTTL = 30 * 24 * time.Hour

const tokenSegments = 3

// TokenConfig содержит параметры выпуска и проверки токенов.
type TokenConfig struct {
	Secret []byte        // Симметричный ключ HMAC-SHA256
	TTL    time.Duration // Срок действия, 0 - DefaultTokenTTL
	// Допуск расхождения часов при проверке exp. По умолчанию 0:
	// токен отклоняется ровно в момент истечения.
	Leeway time.Duration
	Now    func() time.Time // Источник времени, nil - time.Now
}

// Claims - утверждения, извлеченные из проверенного токена.
type Claims struct {
	MemberID  int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Полезная нагрузка токена: member_id, username, iat, exp.
type jwtClaims struct {
	MemberID *int64 `json:"member_id,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Codec выпускает и проверяет подписанные токены участников.
// Не имеет изменяемого состояния и безопасен для конкурентного использования.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec создает Codec с заданной конфигурацией.
func NewCodec(cfg TokenConfig) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("не задан секретный ключ для подписи токенов")
	}
	if cfg.TTL < 0 || cfg.Leeway < 0 {
		return nil, errors.New("срок действия токена и допуск не могут быть отрицательными")
	}

	c := &Codec{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}
	if c.ttl == 0 {
		c.ttl = DefaultTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// TTL возвращает срок действия выпускаемых токенов.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue выпускает токен для участника.
func (c *Codec) Issue(member *models.Member) (string, error) {
	if member == nil {
		return "", errors.New("нельзя выпустить токен для пустого участника")
	}

	now := c.now().UTC()
	memberID := member.ID
	claims := jwtClaims{
		MemberID: &memberID,
		Username: member.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify проверяет формат, подпись и срок действия токена
// и возвращает его утверждения.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != tokenSegments {
		return nil, ErrMalformedToken
	}
	// Подпись декодируется строго: иначе изменение последнего символа
	// сегмента, затрагивающее только незначащие биты, не меняло бы подпись.
	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return nil, newError(KindBadSignature, err)
	}
	// Подпись проверяется до разбора заголовка и полезной нагрузки.
	if err = jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, c.secret); err != nil {
		return nil, newError(KindBadSignature, err)
	}

	claims := &jwtClaims{}
	if _, err = c.parser.ParseWithClaims(tokenString, claims, c.keyFunc); err != nil {
		return nil, classify(err)
	}

	if claims.MemberID == nil {
		return nil, newError(KindMalformedToken, errors.New("отсутствует member_id"))
	}

	result := &Claims{
		MemberID:  *claims.MemberID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.UTC(),
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.UTC()
	}
	return result, nil
}

func (c *Codec) keyFunc(_ *jwt.Token) (interface{}, error) {
	return c.secret, nil
}

// classify переводит ошибки golang-jwt в виды отказов.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newError(KindBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(KindExpired, err)
	default:
		return newError(KindMalformedToken, err)
	}
}
