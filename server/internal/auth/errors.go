package auth

import (
	"errors"
	"fmt"
)

// Kind - вид отказа в аутентификации.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedHeader
	KindUnsupportedScheme
	KindMalformedToken
	KindBadSignature
	KindExpired
	KindMissingSubject
	KindMemberNotFound
)

// String возвращает машиночитаемое имя вида отказа (для логов).
func (k Kind) String() string {
	switch k {
	case KindMalformedHeader:
		return "malformed_header"
	case KindUnsupportedScheme:
		return "unsupported_scheme"
	case KindMalformedToken:
		return "malformed_token"
	case KindBadSignature:
		return "bad_signature"
	case KindExpired:
		return "expired"
	case KindMissingSubject:
		return "missing_subject"
	case KindMemberNotFound:
		return "member_not_found"
	default:
		return "unknown"
	}
}

func (k Kind) message() string {
	switch k {
	case KindMalformedHeader:
		return "неверный формат заголовка Authorization"
	case KindUnsupportedScheme:
		return "неподдерживаемая схема авторизации"
	case KindMalformedToken:
		return "неверный формат токена"
	case KindBadSignature:
		return "неверная подпись токена"
	case KindExpired:
		return "срок действия токена истек"
	case KindMissingSubject:
		return "в токене отсутствует идентификатор участника"
	case KindMemberNotFound:
		return "участник не найден"
	default:
		return "ошибка аутентификации"
	}
}

// Error - отказ в аутентификации определенного вида.
// errors.Is сравнивает ошибки по виду, поэтому обернутая причина не мешает
// проверкам вида errors.Is(err, auth.ErrExpired).
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.message(), e.Err)
	}
	return e.Kind.message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сообщает, совпадает ли вид отказа с target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Ошибки аутентификации для сравнения через errors.Is.
var (
	ErrMalformedHeader   = &Error{Kind: KindMalformedHeader}
	ErrUnsupportedScheme = &Error{Kind: KindUnsupportedScheme}
	ErrMalformedToken    = &Error{Kind: KindMalformedToken}
	ErrBadSignature      = &Error{Kind: KindBadSignature}
	ErrExpired           = &Error{Kind: KindExpired}
	ErrMissingSubject    = &Error{Kind: KindMissingSubject}
	ErrMemberNotFound    = &Error{Kind: KindMemberNotFound}
)

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// KindOf возвращает вид отказа, если err - ошибка аутентификации,
// иначе KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRejection сообщает, является ли err отказом в аутентификации
// (в отличие от внутренней ошибки, например недоступности хранилища).
func IsRejection(err error) bool {
	return KindOf(err) != KindUnknown
}
