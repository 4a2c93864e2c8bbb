package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"orgBoard/internal/blob"
	"orgBoard/internal/logger"
	"orgBoard/internal/models/attachment"
	rep "orgBoard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttachmentService держит бинарник и метаданные парой. Источник истины
// это метаданные: бинарник пишется первым и убирается компенсацией, если
// запись метаданных не удалась; удаляется бинарник только после того,
// как метаданные сказали, что это безопасно.
type AttachmentService struct {
	repo  AttachmentRepository
	tasks TaskRepository
	blobs blob.Store
}

func NewAttachmentService(repo AttachmentRepository, tasks TaskRepository, blobs blob.Store) AttachmentService {
	return AttachmentService{
		repo:  repo,
		tasks: tasks,
		blobs: blobs,
	}
}

func (s *AttachmentService) Upload(ctx context.Context, actorID, taskID uuid.UUID, fileName, mimeType string, data []byte) (*attachment.Attachment, error) {
	if actorID == uuid.Nil {
		return nil, NewAuthenticationError()
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, NewValidationError("file_name", "имя файла не может быть пустым")
	}
	size := int64(len(data))
	if size > attachment.MaxSizeBytes {
		return nil, NewSizeLimitExceeded(size, attachment.MaxSizeBytes)
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewNotFound("задача", taskID.String())
	}

	// Ключ с пространством организация/задача/метка времени.
	key := fmt.Sprintf("%s/%s/%d_%s", t.OrgID, taskID, time.Now().UnixNano(), path.Base(fileName))

	if err := s.blobs.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("запись бинарника: %w", err)
	}

	a := &attachment.Attachment{
		UUID:       uuid.New(),
		TaskID:     taskID,
		FileName:   fileName,
		Size:       size,
		MimeType:   mimeType,
		StorageKey: key,
		UploaderID: actorID,
		UploadedAt: time.Now(),
	}

	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		// Компенсация: бинарник без метаданных не оставляем.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			logger.Error("Service: Осиротевший бинарник, нужна сверка", delErr,
				zap.String("storage_key", key))
			return nil, NewStorageInconsistent(key, err)
		}
		return nil, fmt.Errorf("регистрация вложения: %w", err)
	}

	logger.Info("Service: Вложение загружено",
		zap.String("attachment_id", a.UUID.String()),
		zap.String("task_id", taskID.String()),
		zap.Int64("size", size))
	return a, nil
}

func (s *AttachmentService) List(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, NewNotFound("задача", taskID.String())
	}

	attachments, err := s.repo.ListAttachmentsByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение вложений: %w", err)
	}
	return attachments, nil
}

func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*attachment.Attachment, []byte, error) {
	a, err := s.repo.GetAttachmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, nil, NewNotFound("вложение", id.String())
		}
		return nil, nil, fmt.Errorf("получение вложения: %w", err)
	}

	data, err := s.blobs.Get(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			// Метаданные есть, бинарника нет: фиксируем расхождение.
			logger.Error("Service: Бинарник вложения отсутствует", err,
				zap.String("attachment_id", id.String()),
				zap.String("storage_key", a.StorageKey))
			return nil, nil, NewNotFound("вложение", id.String())
		}
		return nil, nil, fmt.Errorf("чтение бинарника: %w", err)
	}
	return a, data, nil
}

// Delete: сперва метаданные, затем бинарник. Неудалённый бинарник
// подбирает фоновая сверка, записью это не считается потерей.
func (s *AttachmentService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return NewAuthenticationError()
	}

	a, err := s.repo.GetAttachmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("вложение", id.String())
		}
		return fmt.Errorf("получение вложения: %w", err)
	}

	if err := s.repo.DeleteAttachment(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("вложение", id.String())
		}
		return fmt.Errorf("удаление вложения: %w", err)
	}

	if err := s.blobs.Delete(ctx, a.StorageKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		logger.Warn("Service: Бинарник не удалился, оставлен для сверки",
			zap.String("storage_key", a.StorageKey),
			zap.Error(err))
	}

	logger.Info("Service: Вложение удалено",
		zap.String("attachment_id", id.String()),
		zap.String("task_id", a.TaskID.String()))
	return nil
}
