package task

import (
	"time"

	"github.com/google/uuid"
)

// TaskOption: функция редактирования отдельного поля задачи.
// Изменение этапа сюда намеренно не входит: этап меняется только
// через процедуру перевода с аудитом.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority Priority) TaskOption {
	if !priority.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category Category) TaskOption {
	if !category.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Category = category
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithRequiresApproval(requiresApproval bool) TaskOption {
	return func(task *Task) {
		task.RequiresApproval = requiresApproval
	}
}

func WithClient(clientID *uuid.UUID) TaskOption {
	return func(task *Task) {
		task.ClientID = clientID
	}
}
