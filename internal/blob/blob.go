package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("объект не найден")

// Store описывает внешнее бинарное хранилище: put/get/delete и
// перечисление ключей для фоновой сверки. Единственный потребитель
// контракта это реестр вложений.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
