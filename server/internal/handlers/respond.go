package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/maynagashev/gophboard/models"
)

// Максимальный размер JSON-тела запроса.
const maxRequestBodySize = 1 << 20

const internalErrorMessage = "внутренняя ошибка сервера"

// validatable - тело запроса, умеющее проверять себя.
type validatable interface {
	Validate() error
}

// writeJSON отправляет v в формате JSON с заданным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Статус уже отправлен, остается только залогировать.
		slog.Error("[Handlers] Ошибка кодирования ответа", "error", err)
	}
}

// writeError отправляет ошибку в формате {"error": ...}.
func writeError(w http.ResponseWriter, status int, message any) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// decodeAndValidate читает JSON-тело в dst и проверяет его.
// При ошибке ответ уже отправлен и возвращается false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "пустое тело запроса")
			return false
		}
		slog.Info("[Handlers] Ошибка декодирования запроса", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "неверный формат запроса")
		return false
	}

	if err := dst.Validate(); err != nil {
		var fieldErrors validation.Errors
		if errors.As(err, &fieldErrors) {
			writeError(w, http.StatusBadRequest, fieldErrors)
			return false
		}
		slog.Error("[Handlers] Ошибка валидации запроса", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return false
	}
	return true
}
