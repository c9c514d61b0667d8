package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Ограничения на текст сообщения.
const (
	MessageTextMinLength = 1
	MessageTextMaxLength = 1000
)

// Message представляет сообщение на доске вместе с данными автора.
type Message struct {
	ID             int64     `db:"id" json:"id"`
	MemberID       int64     `db:"member_id" json:"member_id"`
	MemberUsername string    `db:"member_username" json:"member_username"`
	Text           string    `db:"text" json:"text"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CreateMessageRequest представляет тело запроса на публикацию сообщения.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// Validate проверяет длину текста сообщения.
func (r CreateMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required,
			validation.RuneLength(MessageTextMinLength, MessageTextMaxLength)),
	)
}

// HelloResponse - ответ приветственного эндпоинта.
type HelloResponse struct {
	Message string `json:"message"`
}
