package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/middleware"
	"github.com/maynagashev/gophboard/server/internal/services"
)

// MessageHandler обрабатывает HTTP-запросы к сообщениям доски.
type MessageHandler struct {
	service services.MessageService
}

// NewMessageHandler создает новый экземпляр MessageHandler.
func NewMessageHandler(s services.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

// List возвращает сообщения от новых к старым.
// Некорректные limit и offset заменяются значениями по умолчанию в сервисе.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	messages, err := h.service.ListMessages(r.Context(), limit, offset)
	if err != nil {
		slog.Error("[MessageHandler:List] Ошибка получения сообщений", "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// Create публикует сообщение от имени текущего участника.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.GetMemberFromContext(r.Context())
	if !ok {
		slog.Error("[MessageHandler:Create] Не удалось получить участника из контекста")
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	var req models.CreateMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.service.PostMessage(r.Context(), member, req.Text)
	if err != nil {
		slog.Error("[MessageHandler:Create] Ошибка публикации", "member_id", member.ID, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	slog.Info("[MessageHandler:Create] Сообщение опубликовано", "message_id", message.ID, "member_id", member.ID)
	writeJSON(w, http.StatusCreated, message)
}

func paginationParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
