package board

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/task"
	"orgBoard/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskClient: часть сервиса задач, нужная доске.
type TaskClient interface {
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, f service.Filters) ([]*task.Task, error)
	TransitionStage(ctx context.Context, actorID uuid.UUID, p service.TransitionParams) (*task.Task, error)
}

// Notifier: явные уведомления на каждое действие; молчаливых отказов нет.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Board: канбан-доска организации с оптимистичным кэшем задач.
// Перетаскивание применяется к кэшу до ответа сервера; при отказе
// кэш целиком замещается свежим чтением: серверная истина
// перекрывает оптимистичную догадку.
type Board struct {
	orgID    uuid.UUID
	client   TaskClient
	notifier Notifier

	mtx   sync.Mutex
	tasks map[uuid.UUID]*task.Task
}

func New(orgID uuid.UUID, client TaskClient, notifier Notifier) *Board {
	return &Board{
		orgID:    orgID,
		client:   client,
		notifier: notifier,
		tasks:    make(map[uuid.UUID]*task.Task),
	}
}

// Load читает задачи организации и замещает ими кэш.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.client.ListByOrganisation(ctx, b.orgID, service.Filters{})
	if err != nil {
		return fmt.Errorf("загрузка доски: %w", err)
	}
	b.Reconcile(tasks)
	return nil
}

// Reconcile замещает кэш серверной истиной.
func (b *Board) Reconcile(tasks []*task.Task) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.tasks = make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		b.tasks[t.UUID] = t.Clone()
	}
}

// ApplyOptimistic: локальная мутация кэша до ответа сервера.
func (b *Board) ApplyOptimistic(taskID uuid.UUID, newStage task.Stage) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if t, ok := b.tasks[taskID]; ok {
		t.Stage = newStage
	}
}

// Columns: задачи по этапам в порядке создания, для отрисовки.
func (b *Board) Columns() map[task.Stage][]*task.Task {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	columns := make(map[task.Stage][]*task.Task, len(task.Stages))
	for _, stage := range task.Stages {
		columns[stage] = []*task.Task{}
	}
	for _, t := range b.tasks {
		columns[t.Stage] = append(columns[t.Stage], t.Clone())
	}
	for _, col := range columns {
		sort.SliceStable(col, func(i, j int) bool {
			return col[i].CreatedAt.Before(col[j].CreatedAt)
		})
	}
	return columns
}

// Task: копия задачи из кэша.
func (b *Board) Task(taskID uuid.UUID) (*task.Task, bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// MoveTask: протокол перетаскивания: оптимистично двигаем в кэше,
// зовём процедуру перевода, при отказе перечитываем доску целиком.
// Перевод в текущий этап ничего не делает и на сервер не ходит.
func (b *Board) MoveTask(ctx context.Context, actorID, taskID uuid.UUID, newStage task.Stage) error {
	b.mtx.Lock()
	current, ok := b.tasks[taskID]
	if !ok {
		b.mtx.Unlock()
		return fmt.Errorf("задача %s не на доске", taskID)
	}
	if current.Stage == newStage {
		b.mtx.Unlock()
		return nil
	}
	expectedVersion := current.Version
	current.Stage = newStage
	b.mtx.Unlock()

	updated, err := b.client.TransitionStage(ctx, actorID, service.TransitionParams{
		TaskID:          taskID,
		NewStage:        newStage,
		ExpectedVersion: expectedVersion,
	})
	if err != nil {
		logger.Warn("Board: Перевод не прошёл, откат к серверной истине",
			zap.String("task_id", taskID.String()),
			zap.String("stage", string(newStage)),
			zap.Error(err))
		if loadErr := b.Load(ctx); loadErr != nil {
			logger.Error("Board: Не удалось перечитать доску", loadErr)
		}
		b.notifier.Failure(fmt.Sprintf("Не удалось перевести задачу в %s", newStage))
		return err
	}

	// Ответ процедуры приходит тем же вызовом, без повторного чтения:
	// обновляем версию в кэше, чтобы следующий перенос не конфликтовал.
	b.mtx.Lock()
	if t, ok := b.tasks[taskID]; ok {
		t.Stage = updated.Stage
		t.Version = updated.Version
		t.CompletedAt = updated.CompletedAt
		t.UpdatedAt = updated.UpdatedAt
	}
	b.mtx.Unlock()

	b.notifier.Success(fmt.Sprintf("Задача переведена в %s", newStage))
	return nil
}
