package service

import (
	"context"

	"orgBoard/internal/models/attachment"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/comment"
	"orgBoard/internal/models/person"
	"orgBoard/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	ListByOrg(context.Context, uuid.UUID) ([]*task.Task, error)
	Transition(context.Context, task.TransitionRequest) (*task.Task, error)
	Assign(context.Context, task.AssignRequest) (*task.Task, error)
	ListAudit(context.Context, uuid.UUID) ([]*audit.Record, error)
	HealthCheck(context.Context) error
}

type CommentRepository interface {
	CreateComment(context.Context, *comment.Comment) error
	ListCommentsByTask(context.Context, uuid.UUID) ([]*comment.Comment, error)
}

type AttachmentRepository interface {
	CreateAttachment(context.Context, *attachment.Attachment) error
	GetAttachmentByID(context.Context, uuid.UUID) (*attachment.Attachment, error)
	ListAttachmentsByTask(context.Context, uuid.UUID) ([]*attachment.Attachment, error)
	DeleteAttachment(context.Context, uuid.UUID) error
	ListStorageKeys(context.Context) ([]string, error)
}

type DirectoryRepository interface {
	GetOrganization(context.Context, uuid.UUID) (*person.Organization, error)
	GetPerson(context.Context, uuid.UUID) (*person.Person, error)
	ListGroupEdges(context.Context, uuid.UUID) ([]*person.ConnectionEdge, error)
	HasWriteAccess(ctx context.Context, orgID, personID uuid.UUID) (bool, error)
}
