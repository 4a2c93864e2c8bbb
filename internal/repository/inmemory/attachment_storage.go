package inmemory

import (
	"context"
	"sync"
	"time"

	"orgBoard/internal/models/attachment"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
)

type AttachmentStorage struct {
	mtx     sync.RWMutex
	storage map[uuid.UUID]*attachment.Attachment
	ids     []uuid.UUID
}

func NewAttachmentStorage() *AttachmentStorage {
	return &AttachmentStorage{
		storage: make(map[uuid.UUID]*attachment.Attachment),
		ids:     []uuid.UUID{},
	}
}

func (s *AttachmentStorage) CreateAttachment(ctx context.Context, a *attachment.Attachment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if a.UploadedAt.IsZero() {
		a.UploadedAt = time.Now()
	}
	cp := *a
	s.storage[a.UUID] = &cp
	s.ids = append(s.ids, a.UUID)
	return nil
}

func (s *AttachmentStorage) GetAttachmentByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	a, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *AttachmentStorage) ListAttachmentsByTask(ctx context.Context, taskID uuid.UUID) ([]*attachment.Attachment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*attachment.Attachment{}
	for _, id := range s.ids {
		a := s.storage[id]
		if a.TaskID != taskID {
			continue
		}
		cp := *a
		res = append(res, &cp)
	}
	return res, nil
}

func (s *AttachmentStorage) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// ListStorageKeys: ключи всех зарегистрированных бинарников,
// используется фоновой сверкой хранилища.
func (s *AttachmentStorage) ListStorageKeys(ctx context.Context) ([]string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	keys := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		keys = append(keys, s.storage[id].StorageKey)
	}
	return keys, nil
}
