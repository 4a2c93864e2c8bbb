package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/attachment"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) CreateAttachment(ctx context.Context, a *attachment.Attachment) error {
	start := time.Now()

	query := `INSERT INTO attachments
				(uuid, task_id, file_name, size, mime_type, storage_key, uploader_id, uploaded_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
				RETURNING uploaded_at`

	err := s.pool.QueryRow(ctx, query,
		a.UUID,
		a.TaskID,
		a.FileName,
		a.Size,
		a.MimeType,
		a.StorageKey,
		a.UploaderID,
	).Scan(&a.UploadedAt)

	if err != nil {
		logger.Error("Repository: Не удалось зарегистрировать вложение", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("регистрация вложения: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetAttachmentByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	query := `SELECT uuid, task_id, file_name, size, mime_type, storage_key, uploader_id, uploaded_at
			FROM attachments
			WHERE uuid = $1`

	a := &attachment.Attachment{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.UUID,
		&a.TaskID,
		&a.FileName,
		&a.Size,
		&a.MimeType,
		&a.StorageKey,
		&a.UploaderID,
		&a.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить вложение", err)
		return nil, fmt.Errorf("получение вложения: %w", err)
	}
	return a, nil
}

func (s *Storage) ListAttachmentsByTask(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error) {
	query := `SELECT uuid, task_id, file_name, size, mime_type, storage_key, uploader_id, uploaded_at
			FROM attachments
			WHERE task_id = $1
			ORDER BY uploaded_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить вложения", err)
		return nil, fmt.Errorf("получение вложений: %w", err)
	}
	defer rows.Close()

	attachments := []*attachment.Attachment{}
	for rows.Next() {
		a := &attachment.Attachment{}
		err := rows.Scan(&a.UUID, &a.TaskID, &a.FileName, &a.Size, &a.MimeType,
			&a.StorageKey, &a.UploaderID, &a.UploadedAt)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования вложения", zap.Error(err))
			continue
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return attachments, nil
}

func (s *Storage) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attachments WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить вложение", err)
		return fmt.Errorf("удаление вложения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListStorageKeys: ключи всех бинарников по метаданным, для фоновой сверки.
func (s *Storage) ListStorageKeys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT storage_key FROM attachments`)
	if err != nil {
		logger.Error("Repository: Не удалось получить ключи вложений", err)
		return nil, fmt.Errorf("получение ключей: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			logger.Warn("Repository: Ошибка сканирования ключа", zap.Error(err))
			continue
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return keys, nil
}
