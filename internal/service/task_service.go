package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/task"
	rep "orgBoard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo      TaskRepository
	directory DirectoryRepository
}

func NewTaskService(repo TaskRepository, directory DirectoryRepository) TaskService {
	return TaskService{
		repo:      repo,
		directory: directory,
	}
}

type CreateTaskParams struct {
	OrgID            uuid.UUID
	Title            string
	Description      string
	Priority         task.Priority
	Category         task.Category
	Stage            task.Stage
	DueDate          *time.Time
	RequiresApproval bool
	AssigneeID       *uuid.UUID
	ClientID         *uuid.UUID
}

type TransitionParams struct {
	TaskID          uuid.UUID
	NewStage        task.Stage
	Notes           string
	Metadata        map[string]string
	ExpectedVersion int
}

type AssignParams struct {
	TaskID          uuid.UUID
	AssigneeID      *uuid.UUID
	Notes           string
	Metadata        map[string]string
	ExpectedVersion int
}

// Filters применяются сервисом поверх полного списка организации,
// в хранилище не проталкиваются.
type Filters struct {
	Search   string
	Priority task.Priority
	Category task.Category
	// Assignee: uuid исполнителя или "unassigned" для явного фильтра
	// по неназначенным задачам.
	Assignee string
}

func (s *TaskService) checkWriteAccess(ctx context.Context, orgID, actorID uuid.UUID) error {
	ok, err := s.directory.HasWriteAccess(ctx, orgID, actorID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("организация", orgID.String())
		}
		return fmt.Errorf("проверка доступа: %w", err)
	}
	if !ok {
		logger.Warn("Service: Отказ в записи",
			zap.String("org_id", orgID.String()),
			zap.String("actor_id", actorID.String()))
		return NewPermissionDenied(orgID.String())
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, actorID uuid.UUID, p CreateTaskParams) (*task.Task, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	stage := p.Stage
	if stage == "" {
		stage = task.StageBacklog
	}
	// Создать задачу сразу "done" нельзя: начальный этап только backlog или todo.
	if !stage.Initial() {
		return nil, NewValidationError("stage", "начальный этап может быть только backlog или todo")
	}
	if !p.Priority.Valid() {
		return nil, NewValidationError("priority", "неизвестный приоритет")
	}
	if !p.Category.Valid() {
		return nil, NewValidationError("category", "неизвестная категория")
	}

	if err := s.checkWriteAccess(ctx, p.OrgID, actorID); err != nil {
		return nil, err
	}

	t := &task.Task{
		UUID:             uuid.New(),
		OrgID:            p.OrgID,
		Title:            p.Title,
		Description:      p.Description,
		Stage:            stage,
		Priority:         p.Priority,
		Category:         p.Category,
		DueDate:          p.DueDate,
		RequiresApproval: p.RequiresApproval,
		CreatorID:        actorID,
		AssigneeID:       p.AssigneeID,
		ClientID:         p.ClientID,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.UUID.String()),
		zap.String("org_id", p.OrgID.String()))
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTaskFields: правка редактируемых полей с проверкой версии.
// Этап через этот путь не меняется, для него есть TransitionStage.
func (s *TaskService) UpdateTaskFields(ctx context.Context, actorID, id uuid.UUID, expectedVersion int, options ...task.TaskOption) (*task.Task, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}

	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(ctx, t.OrgID, actorID); err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	if strings.TrimSpace(t.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	if expectedVersion != 0 {
		t.Version = expectedVersion
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", id.String())
		}
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена", zap.String("task_id", id.String()))
	return t, nil
}

// TransitionStage: канонический путь смены этапа: единая процедура
// хранилища с аудитом и бухгалтерией completed_at.
func (s *TaskService) TransitionStage(ctx context.Context, actorID uuid.UUID, p TransitionParams) (*task.Task, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}
	if !p.NewStage.Valid() {
		return nil, NewValidationError("stage", "неизвестный этап")
	}

	t, err := s.GetTaskByID(ctx, p.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(ctx, t.OrgID, actorID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, task.TransitionRequest{
		TaskID:          p.TaskID,
		NewStage:        p.NewStage,
		PerformedBy:     actorID,
		Notes:           p.Notes,
		Metadata:        p.Metadata,
		ExpectedVersion: p.ExpectedVersion,
	})
	if err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", p.TaskID.String())
		}
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", p.TaskID.String())
		}
		return nil, fmt.Errorf("перевод этапа: %w", err)
	}

	logger.Info("Service: Этап переведён",
		zap.String("task_id", p.TaskID.String()),
		zap.String("stage", string(p.NewStage)))
	return updated, nil
}

// AssignTask: переназначение отдельной процедурой с собственным аудитом.
// Принадлежность исполнителя к участникам организации здесь не перепроверяется:
// список участников собирает UI, а не граница безопасности.
func (s *TaskService) AssignTask(ctx context.Context, actorID uuid.UUID, p AssignParams) (*task.Task, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}

	t, err := s.GetTaskByID(ctx, p.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(ctx, t.OrgID, actorID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Assign(ctx, task.AssignRequest{
		TaskID:          p.TaskID,
		AssigneeID:      p.AssigneeID,
		PerformedBy:     actorID,
		Notes:           p.Notes,
		Metadata:        p.Metadata,
		ExpectedVersion: p.ExpectedVersion,
	})
	if err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", p.TaskID.String())
		}
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("задача", p.TaskID.String())
		}
		return nil, fmt.Errorf("переназначение задачи: %w", err)
	}

	logger.Info("Service: Задача переназначена", zap.String("task_id", p.TaskID.String()))
	return updated, nil
}

// ListByOrganisation возвращает задачи организации с фильтрами поверх
// полного списка. Поиск матчится по названию, описанию и именам
// исполнителя и клиента без учёта регистра.
func (s *TaskService) ListByOrganisation(ctx context.Context, orgID uuid.UUID, f Filters) ([]*task.Task, error) {
	tasks, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	names := s.resolveNames(ctx, tasks)

	res := []*task.Task{}
	for _, t := range tasks {
		if s.matches(t, f, names) {
			res = append(res, t)
		}
	}
	return res, nil
}

// resolveNames: имена людей, встречающихся в задачах, для текстового
// поиска. Недоступный справочник не валит выдачу: имя остаётся пустым.
func (s *TaskService) resolveNames(ctx context.Context, tasks []*task.Task) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	lookup := func(id *uuid.UUID) {
		if id == nil {
			return
		}
		if _, ok := names[*id]; ok {
			return
		}
		p, err := s.directory.GetPerson(ctx, *id)
		if err != nil {
			names[*id] = ""
			return
		}
		names[*id] = p.DisplayName
	}
	for _, t := range tasks {
		lookup(t.AssigneeID)
		lookup(t.ClientID)
	}
	return names
}

func (s *TaskService) matches(t *task.Task, f Filters, names map[uuid.UUID]string) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}

	switch f.Assignee {
	case "":
	case "unassigned":
		if t.AssigneeID != nil {
			return false
		}
	default:
		id, err := uuid.Parse(f.Assignee)
		if err != nil || t.AssigneeID == nil || *t.AssigneeID != id {
			return false
		}
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
		if !hit && t.AssigneeID != nil {
			hit = strings.Contains(strings.ToLower(names[*t.AssigneeID]), q)
		}
		if !hit && t.ClientID != nil {
			hit = strings.Contains(strings.ToLower(names[*t.ClientID]), q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func (s *TaskService) ListAudit(ctx context.Context, taskID uuid.UUID) ([]*audit.Record, error) {
	if _, err := s.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListAudit(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение аудита: %w", err)
	}
	return records, nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}
