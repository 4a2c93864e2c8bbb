package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"orgBoard/internal/models/comment"

	"github.com/google/uuid"
)

type CommentStorage struct {
	mtx     sync.RWMutex
	storage map[uuid.UUID][]*comment.Comment
}

func NewCommentStorage() *CommentStorage {
	return &CommentStorage{
		storage: make(map[uuid.UUID][]*comment.Comment),
	}
}

func (s *CommentStorage) CreateComment(ctx context.Context, c *comment.Comment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	s.storage[c.TaskID] = append(s.storage[c.TaskID], &cp)
	return nil
}

// ListCommentsByTask возвращает тред в порядке создания, от старых к новым.
func (s *CommentStorage) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*comment.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	comments := s.storage[taskID]
	res := make([]*comment.Comment, len(comments))
	copy(res, comments)

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}
