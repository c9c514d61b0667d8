package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/middleware"
	"github.com/maynagashev/gophboard/server/internal/services"
)

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register обрабатывает запрос на регистрацию нового участника.
// Ответ содержит токен, чтобы клиенту не требовался отдельный вход.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("[AuthHandler] Ошибка регистрации", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(result))
}

// Login обрабатывает запрос на вход участника.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
			return
		}
		slog.Error("[AuthHandler] Ошибка входа", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

// Profile возвращает текущего участника.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.GetMemberFromContext(r.Context())
	if !ok {
		slog.Error("[AuthHandler:Profile] Не удалось получить участника из контекста")
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, models.NewMemberResponse(member))
}

func newAuthResponse(result *services.AuthResult) models.AuthResponse {
	return models.AuthResponse{
		AccessToken: result.Token,
		TokenType:   models.TokenTypeBearer,
		Member:      models.NewMemberResponse(result.Member),
	}
}
