package dto

import (
	"time"

	"orgBoard/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         string     `json:"priority"`
	Category         string     `json:"category"`
	Stage            string     `json:"stage,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	AssigneeID       *uuid.UUID `json:"assignee_id,omitempty"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
}

type UpdateTaskRequest struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	Category         *string    `json:"category,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	RequiresApproval *bool      `json:"requires_approval,omitempty"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	ExpectedVersion  int        `json:"expected_version,omitempty"`
}

type TransitionRequest struct {
	Stage           string            `json:"stage"`
	Notes           string            `json:"notes,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	ExpectedVersion int               `json:"expected_version,omitempty"`
}

type AssignRequest struct {
	AssigneeID      *uuid.UUID        `json:"assignee_id"`
	Notes           string            `json:"notes,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	ExpectedVersion int               `json:"expected_version,omitempty"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

type TaskResponse struct {
	UUID             uuid.UUID  `json:"id"`
	OrgID            uuid.UUID  `json:"org_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Stage            string     `json:"stage"`
	Priority         string     `json:"priority"`
	Category         string     `json:"category"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	CreatorID        uuid.UUID  `json:"creator_id"`
	AssigneeID       *uuid.UUID `json:"assignee_id,omitempty"`
	ClientID         *uuid.UUID `json:"client_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Version          int        `json:"version"`
	IsOverdue        bool       `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:             t.UUID,
		OrgID:            t.OrgID,
		Title:            t.Title,
		Description:      t.Description,
		Stage:            string(t.Stage),
		Priority:         string(t.Priority),
		Category:         string(t.Category),
		DueDate:          t.DueDate,
		RequiresApproval: t.RequiresApproval,
		CreatorID:        t.CreatorID,
		AssigneeID:       t.AssigneeID,
		ClientID:         t.ClientID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		CompletedAt:      t.CompletedAt,
		Version:          t.Version,
		IsOverdue: t.Stage != task.StageDone &&
			t.DueDate != nil && t.DueDate.Before(time.Now()),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
