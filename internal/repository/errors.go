package repository

import "errors"

// Сигнальные ошибки хранилищ. Сервисный слой переводит их в бизнес-ошибки.
var ErrNotFound = errors.New("запись не найдена")
var ErrVersionConflict = errors.New("конфликт версий")
