package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/middleware"
	"github.com/maynagashev/gophboard/server/internal/services"
)

// ArchiveHandler обрабатывает HTTP-запросы, связанные с архивами доски.
type ArchiveHandler struct {
	archiveService services.ArchiveService
}

// NewArchiveHandler создает новый экземпляр ArchiveHandler.
func NewArchiveHandler(as services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: as}
}

// Create обрабатывает POST запрос на создание архива текущего состояния доски.
func (h *ArchiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.GetMemberFromContext(r.Context())
	if !ok {
		slog.Error("[ArchiveHandler:Create] Не удалось получить участника из контекста")
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	archive, err := h.archiveService.CreateArchive(r.Context(), member)
	if err != nil {
		slog.Error("[ArchiveHandler:Create] Ошибка создания архива", "member_id", member.ID, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusCreated, archive)
}

// List обрабатывает GET запрос на получение списка архивов участника.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		slog.Error("[ArchiveHandler:List] Не удалось получить участника из контекста")
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	limit, offset := paginationParams(r)
	archives, err := h.archiveService.ListArchives(r.Context(), memberID, limit, offset)
	if err != nil {
		slog.Error("[ArchiveHandler:List] Ошибка получения списка архивов", "member_id", memberID, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	if archives == nil {
		archives = []models.Archive{}
	}
	writeJSON(w, http.StatusOK, archives)
}

// Download обрабатывает GET запрос на скачивание архива.
func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		slog.Error("[ArchiveHandler:Download] Не удалось получить участника из контекста")
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	archiveID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || archiveID <= 0 {
		writeError(w, http.StatusBadRequest, "неверный ID архива")
		return
	}

	reader, archive, err := h.archiveService.OpenArchive(r.Context(), memberID, archiveID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrArchiveNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			slog.Error("[ArchiveHandler:Download] Ошибка открытия архива",
				"archive_id", archiveID, "member_id", memberID, "error", err)
			writeError(w, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("[ArchiveHandler:Download] Ошибка закрытия reader", "error", closeErr)
		}
	}()

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gophboard_archive_%d.json"`, archive.ID))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.FormatInt(archive.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)

	if _, err = io.Copy(w, reader); err != nil {
		slog.Warn("[ArchiveHandler:Download] Ошибка отправки архива", "archive_id", archive.ID, "error", err)
		return
	}
	slog.Info("[ArchiveHandler:Download] Архив отправлен", "archive_id", archive.ID, "member_id", memberID)
}
