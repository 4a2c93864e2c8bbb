package service_test

import (
	"context"

	"orgBoard/internal/models/attachment"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/comment"
	"orgBoard/internal/models/person"
	"orgBoard/internal/models/task"
	"orgBoard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Transition(ctx context.Context, req task.TransitionRequest) (*task.Task, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Assign(ctx context.Context, req task.AssignRequest) (*task.Task, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListAudit(ctx context.Context, taskID uuid.UUID) ([]*audit.Record, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Record), args.Error(1)
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockDirectoryRepository - мок справочника людей и организаций
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*person.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Organization), args.Error(1)
}

func (m *MockDirectoryRepository) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockDirectoryRepository) ListGroupEdges(ctx context.Context, groupID uuid.UUID) ([]*person.ConnectionEdge, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*person.ConnectionEdge), args.Error(1)
}

func (m *MockDirectoryRepository) HasWriteAccess(ctx context.Context, orgID, personID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, personID)
	return args.Bool(0), args.Error(1)
}

var _ service.DirectoryRepository = (*MockDirectoryRepository)(nil)

// MockCommentRepository - мок репозитория комментариев
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) CreateComment(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*comment.Comment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comment.Comment), args.Error(1)
}

var _ service.CommentRepository = (*MockCommentRepository)(nil)

// MockAttachmentRepository - мок репозитория вложений
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) CreateAttachment(ctx context.Context, a *attachment.Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttachmentRepository) GetAttachmentByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attachment.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListAttachmentsByTask(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*attachment.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentRepository) ListStorageKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ service.AttachmentRepository = (*MockAttachmentRepository)(nil)
