package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/auth"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения аутентифицированного участника в контексте.
const identityKey contextKey = "identity"

// Текст ответа при любом отказе: вид отказа клиенту не раскрывается.
const unauthorizedMessage = "требуется аутентификация"

// IdentityResolver определяет участника по значению заголовка Authorization.
type IdentityResolver interface {
	Authenticate(ctx context.Context, header string) (*auth.Identity, error)
}

// Authenticator пропускает только запросы с действительным токеном.
func Authenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return authenticate(resolver, true)
}

// OptionalAuthenticator пропускает анонимные запросы без заголовка Authorization,
// но отклоняет запросы с недействительным токеном.
func OptionalAuthenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return authenticate(resolver, false)
}

func authenticate(resolver IdentityResolver, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if auth.IsRejection(err) {
					slog.Info("[AuthMiddleware] Отказ в аутентификации",
						"kind", auth.KindOf(err).String(), "path", r.URL.Path, "error", err)
					writeUnauthorized(w)
					return
				}
				slog.Error("[AuthMiddleware] Внутренняя ошибка аутентификации", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
				return
			}

			if identity == nil {
				if required {
					slog.Info("[AuthMiddleware] Заголовок Authorization отсутствует", "path", r.URL.Path)
					writeUnauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("[AuthMiddleware] Участник аутентифицирован", "member_id", identity.Member.ID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity возвращает копию контекста с участником.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext извлекает участника из контекста запроса.
func GetIdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	if !ok || identity == nil || identity.Member == nil {
		return nil, false
	}
	return identity, true
}

// GetMemberFromContext извлекает модель участника из контекста запроса.
func GetMemberFromContext(ctx context.Context) (*models.Member, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return nil, false
	}
	return identity.Member, true
}

// GetMemberIDFromContext извлекает ID участника из контекста запроса.
// Возвращает ID и true, если участник найден, иначе 0 и false.
func GetMemberIDFromContext(ctx context.Context) (int64, bool) {
	member, ok := GetMemberFromContext(ctx)
	if !ok {
		return 0, false
	}
	return member.ID, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", models.TokenTypeBearer)
	writeError(w, http.StatusUnauthorized, unauthorizedMessage)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: message}); err != nil {
		slog.Error("[AuthMiddleware] Ошибка кодирования ответа", "error", err)
	}
}
