package handlers

import (
	"context"

	"orgBoard/internal/models/attachment"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/comment"
	"orgBoard/internal/models/person"
	"orgBoard/internal/models/task"
	"orgBoard/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, actorID uuid.UUID, p service.CreateTaskParams) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	UpdateTaskFields(ctx context.Context, actorID, id uuid.UUID, expectedVersion int, options ...task.TaskOption) (*task.Task, error)
	TransitionStage(ctx context.Context, actorID uuid.UUID, p service.TransitionParams) (*task.Task, error)
	AssignTask(ctx context.Context, actorID uuid.UUID, p service.AssignParams) (*task.Task, error)
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, f service.Filters) ([]*task.Task, error)
	ListAudit(ctx context.Context, taskID uuid.UUID) ([]*audit.Record, error)
	HealthCheck(ctx context.Context) error
}

type MemberService interface {
	ResolveOrganisationMembers(ctx context.Context, orgID uuid.UUID) ([]*person.Member, error)
}

type CommentService interface {
	AddComment(ctx context.Context, actorID, taskID uuid.UUID, text string) (*comment.Comment, error)
	ListComments(ctx context.Context, taskID uuid.UUID) ([]*comment.Comment, error)
}

type AttachmentService interface {
	Upload(ctx context.Context, actorID, taskID uuid.UUID, fileName, mimeType string, data []byte) (*attachment.Attachment, error)
	List(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error)
	Download(ctx context.Context, id uuid.UUID) (*attachment.Attachment, []byte, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}
