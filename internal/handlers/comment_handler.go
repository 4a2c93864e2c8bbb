package handlers

import (
	"encoding/json"
	"net/http"

	"orgBoard/internal/handlers/dto"
	"orgBoard/internal/logger"
	"orgBoard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service CommentService
}

func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddComment обрабатывает POST /tasks/{id}/comments.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Добавление комментария")

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается application/json")
		return
	}

	var req dto.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: Некорректное тело запроса", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	created, err := h.service.AddComment(r.Context(), actorID, taskID, req.Text)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось добавить комментарий", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Комментарий добавлен",
		zap.String("task_id", taskID.String()),
		zap.String("comment_id", created.UUID.String()))
	responseWithJSON(w, http.StatusCreated, toPayload("comment", created))
}

// ListComments обрабатывает GET /tasks/{id}/comments.
// Комментарии возвращаются в порядке создания.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Комментарии задачи")

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	comments, err := h.service.ListComments(r.Context(), taskID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось получить комментарии", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("comments", comments),
		toPayload("count", len(comments)),
	)
}
