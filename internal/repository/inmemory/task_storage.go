package inmemory

import (
	"context"
	"sync"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/task"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	mtx     sync.RWMutex
	storage map[uuid.UUID]*task.Task
	ids     []uuid.UUID
	records map[uuid.UUID][]*audit.Record
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		ids:     []uuid.UUID{},
		records: make(map[uuid.UUID][]*audit.Record),
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}
	taskToCreate.Version = 1

	s.storage[taskToCreate.UUID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

// Update: полная перезапись редактируемых полей с проверкой версии.
// Этап здесь не трогается: он меняется только через Transition.
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	s.storage[taskToUpdate.UUID] = taskToUpdate.Clone()

	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.OrgID != orgID {
			continue
		}
		res = append(res, t.Clone())
	}
	return res, nil
}

// Transition: атомарный перевод этапа: запись этапа, completed_at
// и строка аудита под одной блокировкой. Перевод в текущий этап ничего не меняет.
func (s *TaskStorage) Transition(ctx context.Context, req task.TransitionRequest) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[req.TaskID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if req.ExpectedVersion != 0 && t.Version != req.ExpectedVersion {
		return nil, repo.ErrVersionConflict
	}
	if t.Stage == req.NewStage {
		return t.Clone(), nil
	}

	now := time.Now()
	fromStage := string(t.Stage)
	toStage := string(req.NewStage)

	t.Stage = req.NewStage
	if req.NewStage == task.StageDone {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = &now
	t.Version++

	s.records[t.UUID] = append(s.records[t.UUID], &audit.Record{
		UUID:      uuid.New(),
		TaskID:    t.UUID,
		Kind:      audit.KindStageTransition,
		FromStage: &fromStage,
		ToStage:   &toStage,
		ActorID:   req.PerformedBy,
		Notes:     req.Notes,
		Metadata:  req.Metadata,
		CreatedAt: now,
	})

	return t.Clone(), nil
}

// Assign: атомарное переназначение с собственной строкой аудита.
func (s *TaskStorage) Assign(ctx context.Context, req task.AssignRequest) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[req.TaskID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if req.ExpectedVersion != 0 && t.Version != req.ExpectedVersion {
		return nil, repo.ErrVersionConflict
	}

	now := time.Now()
	fromAssignee := t.AssigneeID

	t.AssigneeID = req.AssigneeID
	t.UpdatedAt = &now
	t.Version++

	s.records[t.UUID] = append(s.records[t.UUID], &audit.Record{
		UUID:         uuid.New(),
		TaskID:       t.UUID,
		Kind:         audit.KindReassignment,
		FromAssignee: fromAssignee,
		ToAssignee:   req.AssigneeID,
		ActorID:      req.PerformedBy,
		Notes:        req.Notes,
		Metadata:     req.Metadata,
		CreatedAt:    now,
	})

	return t.Clone(), nil
}

func (s *TaskStorage) ListAudit(ctx context.Context, taskID uuid.UUID) ([]*audit.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := s.records[taskID]
	res := make([]*audit.Record, len(records))
	copy(res, records)
	return res, nil
}
