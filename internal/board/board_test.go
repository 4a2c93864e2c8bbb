package board_test

import (
	"context"
	"testing"
	"time"

	"orgBoard/internal/board"
	"orgBoard/internal/models/task"
	"orgBoard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskClient - мок серверной стороны доски
type MockTaskClient struct {
	mock.Mock
}

func (m *MockTaskClient) ListByOrganisation(ctx context.Context, orgID uuid.UUID, f service.Filters) ([]*task.Task, error) {
	args := m.Called(ctx, orgID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskClient) TransitionStage(ctx context.Context, actorID uuid.UUID, p service.TransitionParams) (*task.Task, error) {
	args := m.Called(ctx, actorID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Failure(msg string) { n.failures = append(n.failures, msg) }

func boardTask(orgID uuid.UUID, title string, stage task.Stage, version int) *task.Task {
	return &task.Task{
		UUID:      uuid.New(),
		OrgID:     orgID,
		Title:     title,
		Stage:     stage,
		Version:   version,
		CreatedAt: time.Now(),
	}
}

// TestBoard_MoveTask тестирует оптимистичный перенос
func TestBoard_MoveTask(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actorID := uuid.New()

	t.Run("success - cache picks up new stage and version", func(t *testing.T) {
		t1 := boardTask(orgID, "Move me", task.StageTodo, 1)
		client := new(MockTaskClient)
		notifier := &recordingNotifier{}
		b := board.New(orgID, client, notifier)
		b.Reconcile([]*task.Task{t1})

		updated := t1.Clone()
		updated.Stage = task.StageInProgress
		updated.Version = 2
		client.On("TransitionStage", mock.Anything, actorID, mock.MatchedBy(func(p service.TransitionParams) bool {
			return p.TaskID == t1.UUID &&
				p.NewStage == task.StageInProgress &&
				p.ExpectedVersion == 1
		})).Return(updated, nil)

		err := b.MoveTask(ctx, actorID, t1.UUID, task.StageInProgress)
		require.NoError(t, err)

		cached, ok := b.Task(t1.UUID)
		require.True(t, ok)
		assert.Equal(t, task.StageInProgress, cached.Stage)
		assert.Equal(t, 2, cached.Version)
		assert.Len(t, notifier.successes, 1)
		assert.Empty(t, notifier.failures)
		client.AssertExpectations(t)
	})

	t.Run("same stage - no server call, no notification", func(t *testing.T) {
		t1 := boardTask(orgID, "Stay put", task.StageTodo, 1)
		client := new(MockTaskClient)
		notifier := &recordingNotifier{}
		b := board.New(orgID, client, notifier)
		b.Reconcile([]*task.Task{t1})

		err := b.MoveTask(ctx, actorID, t1.UUID, task.StageTodo)
		require.NoError(t, err)

		client.AssertNotCalled(t, "TransitionStage", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, notifier.successes)
		assert.Empty(t, notifier.failures)
	})

	t.Run("rejected move - cache equals fresh server read", func(t *testing.T) {
		t1 := boardTask(orgID, "Contended", task.StageTodo, 1)
		client := new(MockTaskClient)
		notifier := &recordingNotifier{}
		b := board.New(orgID, client, notifier)
		b.Reconcile([]*task.Task{t1})

		// сервер уже видел чужой перенос: версия там выше
		serverTruth := t1.Clone()
		serverTruth.Stage = task.StageApproved
		serverTruth.Version = 3

		client.On("TransitionStage", mock.Anything, actorID, mock.Anything).
			Return(nil, service.NewVersionConflict("задача", t1.UUID.String()))
		client.On("ListByOrganisation", mock.Anything, orgID, service.Filters{}).
			Return([]*task.Task{serverTruth}, nil)

		err := b.MoveTask(ctx, actorID, t1.UUID, task.StageDone)
		require.Error(t, err)

		cached, ok := b.Task(t1.UUID)
		require.True(t, ok)
		assert.Equal(t, task.StageApproved, cached.Stage, "откат к серверной истине, не к догадке")
		assert.Equal(t, 3, cached.Version)
		assert.Len(t, notifier.failures, 1)
		assert.Empty(t, notifier.successes)
		client.AssertExpectations(t)
	})

	t.Run("unknown task", func(t *testing.T) {
		client := new(MockTaskClient)
		b := board.New(orgID, client, &recordingNotifier{})

		err := b.MoveTask(ctx, actorID, uuid.New(), task.StageDone)
		assert.Error(t, err)
		client.AssertNotCalled(t, "TransitionStage", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestBoard_Columns тестирует раскладку по этапам
func TestBoard_Columns(t *testing.T) {
	orgID := uuid.New()
	client := new(MockTaskClient)
	b := board.New(orgID, client, &recordingNotifier{})

	early := boardTask(orgID, "early", task.StageTodo, 1)
	early.CreatedAt = time.Now().Add(-time.Hour)
	late := boardTask(orgID, "late", task.StageTodo, 1)
	other := boardTask(orgID, "doing", task.StageInProgress, 1)

	b.Reconcile([]*task.Task{late, other, early})

	columns := b.Columns()
	require.Len(t, columns[task.StageTodo], 2)
	assert.Equal(t, "early", columns[task.StageTodo][0].Title)
	assert.Equal(t, "late", columns[task.StageTodo][1].Title)
	require.Len(t, columns[task.StageInProgress], 1)
	assert.Empty(t, columns[task.StageDone])
}

// TestBoard_ApplyOptimistic тестирует локальную мутацию кэша
func TestBoard_ApplyOptimistic(t *testing.T) {
	orgID := uuid.New()
	b := board.New(orgID, new(MockTaskClient), &recordingNotifier{})

	t1 := boardTask(orgID, "Optimist", task.StageBacklog, 1)
	b.Reconcile([]*task.Task{t1})

	b.ApplyOptimistic(t1.UUID, task.StageInProgress)

	cached, ok := b.Task(t1.UUID)
	require.True(t, ok)
	assert.Equal(t, task.StageInProgress, cached.Stage)
	assert.Equal(t, 1, cached.Version, "версия меняется только сервером")
}
