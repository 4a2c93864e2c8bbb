package worker

import (
	"context"
	"time"

	"orgBoard/internal/blob"
	"orgBoard/internal/logger"
	"orgBoard/internal/service"

	"go.uber.org/zap"
)

// StorageSweeper: фоновая сверка бинарного хранилища с метаданными
// вложений. Бинарник без записи метаданных считается сиротой; чтобы не снести
// файл, чья регистрация ещё в полёте, сирота удаляется только если
// замечен в двух проверках подряд.
type StorageSweeper struct {
	repo     service.AttachmentRepository
	blobs    blob.Store
	interval time.Duration

	suspects map[string]bool
}

func NewStorageSweeper(repo service.AttachmentRepository, blobs blob.Store, interval *time.Duration) *StorageSweeper {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 10 * time.Minute
	} else {
		intervalToSet = *interval
	}
	return &StorageSweeper{
		repo:     repo,
		blobs:    blobs,
		interval: intervalToSet,
		suspects: make(map[string]bool),
	}
}

func (w *StorageSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая сверка хранилища", zap.Time("started_at", time.Now()))
			w.Sweep(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая сверка останавливается")
			return
		}
	}
}

func (w *StorageSweeper) Sweep(ctx context.Context) {
	start := time.Now()

	registered, err := w.repo.ListStorageKeys(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка получения ключей метаданных", zap.Error(err))
		return
	}
	known := make(map[string]bool, len(registered))
	for _, key := range registered {
		known[key] = true
	}

	keys, err := w.blobs.Keys(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка обхода хранилища", zap.Error(err))
		return
	}

	removed := 0
	next := make(map[string]bool)
	for _, key := range keys {
		if known[key] {
			continue
		}
		if !w.suspects[key] {
			// первая встреча: только помечаем
			next[key] = true
			continue
		}
		if err := w.blobs.Delete(ctx, key); err != nil {
			logger.Warn("Worker: Не удалось удалить сироту", zap.String("storage_key", key), zap.Error(err))
			next[key] = true
			continue
		}
		removed++
	}
	w.suspects = next

	logger.Info("Worker: Сверка завершена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(keys)),
		zap.Int("removed", removed),
		zap.Int("suspects", len(next)))
}
