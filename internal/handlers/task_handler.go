package handlers

import (
	"encoding/json"
	"net/http"

	"orgBoard/internal/handlers/dto"
	"orgBoard/internal/logger"
	"orgBoard/internal/middleware"
	"orgBoard/internal/models/task"
	"orgBoard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask обрабатывает POST /organisations/{orgID}/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Создание задачи")

	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор организации", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор организации")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается application/json")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: Некорректное тело запроса", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	created, err := h.service.CreateTask(r.Context(), actorID, service.CreateTaskParams{
		OrgID:            orgID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         task.Priority(req.Priority),
		Category:         task.Category(req.Category),
		Stage:            task.Stage(req.Stage),
		DueDate:          req.DueDate,
		RequiresApproval: req.RequiresApproval,
		AssigneeID:       req.AssigneeID,
		ClientID:         req.ClientID,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось создать задачу", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.String("org_id", orgID.String()))
	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created)))
}

// ListTasks обрабатывает GET /organisations/{orgID}/tasks с фильтрами
// search, priority, category и assignee в query-параметрах.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Список задач организации")

	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор организации", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор организации")
		return
	}

	filters := service.Filters{
		Search:   r.URL.Query().Get("search"),
		Priority: task.Priority(r.URL.Query().Get("priority")),
		Category: task.Category(r.URL.Query().Get("category")),
		Assignee: r.URL.Query().Get("assignee"),
	}

	tasks, err := h.service.ListByOrganisation(r.Context(), orgID, filters)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось получить список задач", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("count", len(tasks)),
	)
}

// GetTask обрабатывает GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Получение задачи")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	t, err := h.service.GetTaskByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось получить задачу", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t)))
}

// UpdateTask обрабатывает PUT /tasks/{id}. Смена стадии здесь запрещена,
// для неё есть отдельный маршрут transition.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Обновление задачи")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается application/json")
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: Некорректное тело запроса", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	var options []task.TaskOption
	if req.Title != nil {
		options = append(options, task.WithTitle(*req.Title))
	}
	if req.Description != nil {
		options = append(options, task.WithDescription(*req.Description))
	}
	if req.Priority != nil {
		options = append(options, task.WithPriority(task.Priority(*req.Priority)))
	}
	if req.Category != nil {
		options = append(options, task.WithCategory(task.Category(*req.Category)))
	}
	if req.DueDate != nil {
		options = append(options, task.WithDueDate(req.DueDate))
	}
	if req.RequiresApproval != nil {
		options = append(options, task.WithRequiresApproval(*req.RequiresApproval))
	}
	if req.ClientID != nil {
		options = append(options, task.WithClient(req.ClientID))
	}

	actorID := middleware.GetPersonID(r.Context())

	updated, err := h.service.UpdateTaskFields(r.Context(), actorID, id, req.ExpectedVersion, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось обновить задачу", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Int("version", updated.Version))
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

// Transition обрабатывает POST /tasks/{id}/transition.
func (h *TaskHandler) Transition(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Перевод задачи между стадиями")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается application/json")
		return
	}

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: Некорректное тело запроса", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	updated, err := h.service.TransitionStage(r.Context(), actorID, service.TransitionParams{
		TaskID:          id,
		NewStage:        task.Stage(req.Stage),
		Notes:           req.Notes,
		Metadata:        req.Metadata,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось перевести задачу", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача переведена",
		zap.String("task_id", id.String()),
		zap.String("stage", req.Stage),
		zap.Int("version", updated.Version))
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

// Assign обрабатывает POST /tasks/{id}/assign. Пустой assignee_id
// снимает исполнителя.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Назначение исполнителя")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "ожидается application/json")
		return
	}

	var req dto.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: Некорректное тело запроса", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	actorID := middleware.GetPersonID(r.Context())

	updated, err := h.service.AssignTask(r.Context(), actorID, service.AssignParams{
		TaskID:          id,
		AssigneeID:      req.AssigneeID,
		Notes:           req.Notes,
		Metadata:        req.Metadata,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось назначить исполнителя", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Исполнитель назначен",
		zap.String("task_id", id.String()),
		zap.Int("version", updated.Version))
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

// ListAudit обрабатывает GET /tasks/{id}/audit.
func (h *TaskHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: История изменений задачи")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор задачи", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор задачи")
		return
	}

	records, err := h.service.ListAudit(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось получить историю задачи", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("records", records),
		toPayload("count", len(records)),
	)
}

// Health обрабатывает GET /health.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
