package worker_test

import (
	"context"
	"testing"
	"time"

	"orgBoard/internal/blob"
	"orgBoard/internal/models/attachment"
	"orgBoard/internal/repository/inmemory"
	"orgBoard/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStorageSweeper_Sweep тестирует двухпроходное удаление сирот
func TestStorageSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewAttachmentStorage()
	blobs := blob.NewMemoryStore()

	registered := &attachment.Attachment{
		UUID:       uuid.New(),
		TaskID:     uuid.New(),
		FileName:   "kept.pdf",
		StorageKey: "org/task/1_kept.pdf",
	}
	require.NoError(t, repo.CreateAttachment(ctx, registered))
	require.NoError(t, blobs.Put(ctx, registered.StorageKey, []byte("keep")))
	require.NoError(t, blobs.Put(ctx, "org/task/2_orphan.bin", []byte("drop")))

	sweeper := worker.NewStorageSweeper(repo, blobs, nil)

	// первый проход: сирота только помечается
	sweeper.Sweep(ctx)
	_, err := blobs.Get(ctx, "org/task/2_orphan.bin")
	assert.NoError(t, err, "после первого прохода сирота ещё жив")

	// второй проход: помеченный сирота удаляется, зарегистрированный остаётся
	sweeper.Sweep(ctx)
	_, err = blobs.Get(ctx, "org/task/2_orphan.bin")
	assert.ErrorIs(t, err, blob.ErrNotFound)
	_, err = blobs.Get(ctx, registered.StorageKey)
	assert.NoError(t, err)
}

// TestStorageSweeper_NewUploadBetweenSweeps тестирует защиту загрузок в полёте
func TestStorageSweeper_NewUploadBetweenSweeps(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewAttachmentStorage()
	blobs := blob.NewMemoryStore()
	sweeper := worker.NewStorageSweeper(repo, blobs, nil)

	// бинарник записан, метаданные ещё не дошли
	require.NoError(t, blobs.Put(ctx, "org/task/3_inflight.bin", []byte("pending")))
	sweeper.Sweep(ctx)

	// между проходами регистрация завершилась
	require.NoError(t, repo.CreateAttachment(ctx, &attachment.Attachment{
		UUID:       uuid.New(),
		TaskID:     uuid.New(),
		FileName:   "inflight.bin",
		StorageKey: "org/task/3_inflight.bin",
	}))

	sweeper.Sweep(ctx)
	_, err := blobs.Get(ctx, "org/task/3_inflight.bin")
	assert.NoError(t, err, "зарегистрированный бинарник не считается сиротой")
}

// TestStorageSweeper_Start тестирует остановку по контексту
func TestStorageSweeper_Start(t *testing.T) {
	interval := 5 * time.Millisecond
	sweeper := worker.NewStorageSweeper(inmemory.NewAttachmentStorage(), blob.NewMemoryStore(), &interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper не остановился по контексту")
	}
}
