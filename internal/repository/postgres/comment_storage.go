package postgres

import (
	"context"
	"fmt"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/comment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Storage) CreateComment(ctx context.Context, c *comment.Comment) error {
	start := time.Now()

	query := `INSERT INTO comments (uuid, task_id, author_id, text, created_at)
				VALUES ($1, $2, $3, $4, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		c.UUID,
		c.TaskID,
		c.AuthorID,
		c.Text,
	).Scan(&c.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить комментарий", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление комментария: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// ListCommentsByTask: тред задачи от старых к новым.
func (s *Storage) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*comment.Comment, error) {
	start := time.Now()

	query := `SELECT uuid, task_id, author_id, text, created_at
			FROM comments
			WHERE task_id = $1
			ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить комментарии", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение комментариев: %w", err)
	}
	defer rows.Close()

	comments := []*comment.Comment{}
	for rows.Next() {
		c := &comment.Comment{}
		err := rows.Scan(&c.UUID, &c.TaskID, &c.AuthorID, &c.Text, &c.CreatedAt)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования комментария", zap.Error(err))
			continue
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return comments, nil
}
