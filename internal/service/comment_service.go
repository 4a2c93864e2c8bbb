package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/comment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	repo  CommentRepository
	tasks TaskRepository
}

func NewCommentService(repo CommentRepository, tasks TaskRepository) CommentService {
	return CommentService{
		repo:  repo,
		tasks: tasks,
	}
}

// AddComment дописывает комментарий в тред. Длина текста не ограничена,
// пустой или пробельный текст отклоняется.
func (s *CommentService) AddComment(ctx context.Context, actorID, taskID uuid.UUID, text string) (*comment.Comment, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("text", "комментарий не может быть пустым")
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, NewNotFound("задача", taskID.String())
	}

	c := &comment.Comment{
		UUID:      uuid.New(),
		TaskID:    taskID,
		AuthorID:  actorID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("добавление комментария: %w", err)
	}

	logger.Info("Service: Комментарий добавлен",
		zap.String("task_id", taskID.String()),
		zap.String("comment_id", c.UUID.String()))
	return c, nil
}

func (s *CommentService) ListComments(ctx context.Context, taskID uuid.UUID) ([]*comment.Comment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, NewNotFound("задача", taskID.String())
	}

	comments, err := s.repo.ListCommentsByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение комментариев: %w", err)
	}
	return comments, nil
}
