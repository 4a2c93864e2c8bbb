package handlers

import (
	"fmt"
	"io"
	"net/http"

	"orgBoard/internal/logger"
	"orgBoard/internal/middleware"
	"orgBoard/internal/models/attachment"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttachmentHandler struct {
	service AttachmentService
}

func NewAttachmentHandler(service AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Upload обрабатывает POST /tasks/{id}/attachments (multipart/form-data,
// поле file). Лимит размера проверяет сервис, здесь чтение обрезается
// чуть выше лимита, чтобы не держать в памяти произвольно большие тела.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Загрузка вложения")

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	if !checkContentType(r, "multipart/form-data") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(attachment.MaxSizeBytes + 1<<20); err != nil {
		logger.Warn("HTTP: Не удалось разобрать multipart-форму", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректная multipart-форма")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("HTTP: В форме отсутствует поле file", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "в форме отсутствует поле file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, attachment.MaxSizeBytes+1))
	if err != nil {
		logger.Error("HTTP: Не удалось прочитать файл из формы", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	created, err := h.service.Upload(r.Context(), actorID, taskID,
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось загрузить вложение", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Вложение загружено",
		zap.String("task_id", taskID.String()),
		zap.String("attachment_id", created.UUID.String()),
		zap.Int64("size", created.Size))
	responseWithJSON(w, http.StatusCreated, toPayload("attachment", created))
}

// List обрабатывает GET /tasks/{id}/attachments.
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Вложения задачи")

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	attachments, err := h.service.List(r.Context(), taskID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось получить вложения", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("attachments", attachments),
		toPayload("count", len(attachments)),
	)
}

// Download обрабатывает GET /attachments/{id} и отдаёт бинарное
// содержимое с исходным именем файла.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Скачивание вложения")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор вложения", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор вложения")
		return
	}

	meta, data, err := h.service.Download(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось скачать вложение", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	mimeType := meta.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", meta.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete обрабатывает DELETE /attachments/{id}.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Удаление вложения")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор вложения", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор вложения")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось удалить вложение", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Вложение удалено", zap.String("attachment_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
