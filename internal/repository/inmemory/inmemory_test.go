package inmemory_test

import (
	"context"
	"testing"

	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/task"
	"orgBoard/internal/repository"
	"orgBoard/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(orgID uuid.UUID, title string) *task.Task {
	return &task.Task{
		UUID:      uuid.New(),
		OrgID:     orgID,
		Title:     title,
		Stage:     task.StageBacklog,
		Priority:  task.PriorityMedium,
		Category:  task.CategoryOther,
		CreatorID: uuid.New(),
	}
}

// TestTaskStorage_CreateAndGet тестирует запись и чтение
func TestTaskStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	orgID := uuid.New()

	created := newTask(orgID, "First")
	require.NoError(t, storage.Create(ctx, created))
	assert.Equal(t, 1, created.Version)

	got, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	// чтение отдаёт копию: правка снаружи не задевает хранилище
	got.Title = "mutated"
	again, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "First", again.Title)

	_, err = storage.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_ListByOrg тестирует выборку по организации
func TestTaskStorage_ListByOrg(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	orgA := uuid.New()
	orgB := uuid.New()

	require.NoError(t, storage.Create(ctx, newTask(orgA, "a1")))
	require.NoError(t, storage.Create(ctx, newTask(orgB, "b1")))
	require.NoError(t, storage.Create(ctx, newTask(orgA, "a2")))

	tasks, err := storage.ListByOrg(ctx, orgA)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].Title)
	assert.Equal(t, "a2", tasks[1].Title)
}

// TestTaskStorage_Update тестирует перезапись с проверкой версии
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	created := newTask(uuid.New(), "Editable")
	require.NoError(t, storage.Create(ctx, created))

	fresh, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	fresh.Title = "Edited"
	require.NoError(t, storage.Update(ctx, fresh))
	assert.Equal(t, 2, fresh.Version)
	assert.NotNil(t, fresh.UpdatedAt)

	// повторная запись с устаревшей версией
	stale := fresh.Clone()
	stale.Version = 1
	err = storage.Update(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

// TestTaskStorage_Transition тестирует перевод этапа с аудитом
func TestTaskStorage_Transition(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("done sets completed_at, leaving done clears it", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		created := newTask(uuid.New(), "Lifecycle")
		require.NoError(t, storage.Create(ctx, created))

		done, err := storage.Transition(ctx, task.TransitionRequest{
			TaskID:      created.UUID,
			NewStage:    task.StageDone,
			PerformedBy: actorID,
		})
		require.NoError(t, err)
		assert.Equal(t, task.StageDone, done.Stage)
		require.NotNil(t, done.CompletedAt)
		assert.Equal(t, 2, done.Version)

		reopened, err := storage.Transition(ctx, task.TransitionRequest{
			TaskID:      created.UUID,
			NewStage:    task.StageInProgress,
			PerformedBy: actorID,
		})
		require.NoError(t, err)
		assert.Nil(t, reopened.CompletedAt)
		assert.Equal(t, 3, reopened.Version)
	})

	t.Run("same stage is a no-op", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		created := newTask(uuid.New(), "Idle")
		require.NoError(t, storage.Create(ctx, created))

		same, err := storage.Transition(ctx, task.TransitionRequest{
			TaskID:      created.UUID,
			NewStage:    task.StageBacklog,
			PerformedBy: actorID,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, same.Version, "версия не растёт")
		assert.Nil(t, same.UpdatedAt)

		records, err := storage.ListAudit(ctx, created.UUID)
		require.NoError(t, err)
		assert.Empty(t, records, "аудит не пишется")
	})

	t.Run("stale expected version is rejected", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		created := newTask(uuid.New(), "Contended")
		require.NoError(t, storage.Create(ctx, created))

		_, err := storage.Transition(ctx, task.TransitionRequest{
			TaskID:          created.UUID,
			NewStage:        task.StageTodo,
			PerformedBy:     actorID,
			ExpectedVersion: 1,
		})
		require.NoError(t, err)

		_, err = storage.Transition(ctx, task.TransitionRequest{
			TaskID:          created.UUID,
			NewStage:        task.StageDone,
			PerformedBy:     actorID,
			ExpectedVersion: 1, // уже 2
		})
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})

	t.Run("audit records accumulate in order", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		created := newTask(uuid.New(), "Audited")
		require.NoError(t, storage.Create(ctx, created))

		_, err := storage.Transition(ctx, task.TransitionRequest{
			TaskID: created.UUID, NewStage: task.StageTodo, PerformedBy: actorID,
			Metadata: map[string]string{"source": "board"},
		})
		require.NoError(t, err)
		_, err = storage.Transition(ctx, task.TransitionRequest{
			TaskID: created.UUID, NewStage: task.StageDone, PerformedBy: actorID,
		})
		require.NoError(t, err)

		records, err := storage.ListAudit(ctx, created.UUID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, audit.KindStageTransition, records[0].Kind)
		assert.Equal(t, "backlog", *records[0].FromStage)
		assert.Equal(t, "todo", *records[0].ToStage)
		assert.Equal(t, "board", records[0].Metadata["source"])
		assert.Equal(t, "done", *records[1].ToStage)
	})
}

// TestTaskStorage_Assign тестирует переназначение с аудитом
func TestTaskStorage_Assign(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	actorID := uuid.New()
	assignee := uuid.New()

	created := newTask(uuid.New(), "Assignable")
	require.NoError(t, storage.Create(ctx, created))

	updated, err := storage.Assign(ctx, task.AssignRequest{
		TaskID:      created.UUID,
		AssigneeID:  &assignee,
		PerformedBy: actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, assignee, *updated.AssigneeID)
	assert.Equal(t, 2, updated.Version)

	// снятие исполнителя тоже событие аудита
	cleared, err := storage.Assign(ctx, task.AssignRequest{
		TaskID:      created.UUID,
		AssigneeID:  nil,
		PerformedBy: actorID,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.AssigneeID)

	records, err := storage.ListAudit(ctx, created.UUID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, audit.KindReassignment, records[0].Kind)
	assert.Nil(t, records[0].FromAssignee)
	assert.Equal(t, assignee, *records[0].ToAssignee)
	assert.Equal(t, assignee, *records[1].FromAssignee)
	assert.Nil(t, records[1].ToAssignee)
}
