package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Ограничения на учетные данные участника.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 6
	// bcrypt не принимает пароли длиннее 72 байт.
	PasswordMaxLength = 72
)

// TokenTypeBearer - тип токена, возвращаемый клиенту при выдаче.
const TokenTypeBearer = "Bearer"

// Member представляет участника доски сообщений.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
type Member struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"` // Хеш пароля никогда не уходит клиенту
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MemberResponse - публичное представление участника.
type MemberResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMemberResponse строит публичное представление участника.
func NewMemberResponse(m *Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Username:  m.Username,
		CreatedAt: m.CreatedAt,
	}
}

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate проверяет длину имени пользователя и пароля.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules()...),
		validation.Field(&r.Password, passwordRules()...),
	)
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate проверяет длину имени пользователя и пароля.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules()...),
		validation.Field(&r.Password, passwordRules()...),
	)
}

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(UsernameMinLength, UsernameMaxLength),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(PasswordMinLength, PasswordMaxLength),
	}
}

// AuthResponse представляет тело ответа при успешной регистрации или входе.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	Member      MemberResponse `json:"member"`
}

// ErrorResponse - общий формат ошибки API.
// Error содержит либо строку, либо карту ошибок по полям.
type ErrorResponse struct {
	Error any `json:"error"`
}
