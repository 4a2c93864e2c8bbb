package service_test

import (
	"context"
	"testing"

	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/person"
	"orgBoard/internal/models/task"
	"orgBoard/internal/repository/inmemory"
	"orgBoard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario_TaskLifecycle прогоняет полный жизненный цикл задачи
// через сервисы поверх inmemory хранилищ, без моков.
func TestScenario_TaskLifecycle(t *testing.T) {
	ctx := context.Background()

	tasks := inmemory.NewTaskStorage()
	directory := inmemory.NewDirectoryStorage()

	ownerID := uuid.New()
	orgID := uuid.New()
	directory.AddPerson(&person.Person{ID: ownerID, DisplayName: "Olga"})
	directory.AddOrganization(&person.Organization{
		ID:            orgID,
		Name:          "Bright Tutors",
		OwnerID:       ownerID,
		MemberGroupID: uuid.New(),
	})

	svc := service.NewTaskService(tasks, directory)

	// Владелец заводит срочную задачу по возврату оплаты
	created, err := svc.CreateTask(ctx, ownerID, service.CreateTaskParams{
		OrgID:    orgID,
		Title:    "Refund parent for cancelled lesson",
		Priority: task.PriorityHigh,
		Category: task.CategoryPaymentIssue,
	})
	require.NoError(t, err)
	assert.Equal(t, task.StageBacklog, created.Stage)
	assert.Equal(t, 1, created.Version)

	// Берёт в работу
	moved, err := svc.TransitionStage(ctx, ownerID, service.TransitionParams{
		TaskID:          created.UUID,
		NewStage:        task.StageTodo,
		ExpectedVersion: created.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, task.StageTodo, moved.Stage)
	assert.Equal(t, 2, moved.Version)
	assert.Nil(t, moved.CompletedAt)

	// Закрывает задачу: completed_at выставляется вместе с этапом
	done, err := svc.TransitionStage(ctx, ownerID, service.TransitionParams{
		TaskID:          created.UUID,
		NewStage:        task.StageDone,
		Notes:           "refund wired",
		ExpectedVersion: moved.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, task.StageDone, done.Stage)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 3, done.Version)

	// В истории два перевода в порядке совершения
	records, err := svc.ListAudit(ctx, created.UUID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, audit.KindStageTransition, r.Kind)
		assert.Equal(t, ownerID, r.ActorID)
	}
	assert.Equal(t, "todo", *records[0].ToStage)
	assert.Equal(t, "done", *records[1].ToStage)
	assert.Equal(t, "refund wired", records[1].Notes)

	// Повторный перевод со старой версией отбивается конфликтом
	_, err = svc.TransitionStage(ctx, ownerID, service.TransitionParams{
		TaskID:          created.UUID,
		NewStage:        task.StageInProgress,
		ExpectedVersion: moved.Version,
	})
	require.Error(t, err)
	assert.Equal(t, "VERSION_CONFLICT", businessCode(t, err))
}
