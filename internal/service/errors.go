package service

import "fmt"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewAuthenticationError() *BusinessError {
	return &BusinessError{
		Code:    "AUTHENTICATION_ERROR",
		Message: "Личность вызывающего не установлена",
		Details: map[string]any{},
	}
}

func NewPermissionDenied(orgID string) *BusinessError {
	return &BusinessError{
		Code:    "PERMISSION_DENIED",
		Message: fmt.Sprintf("Нет права записи в организации %s", orgID),
		Details: map[string]any{
			"org_id": orgID,
		},
	}
}

func NewVersionConflict(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    "VERSION_CONFLICT",
		Message: fmt.Sprintf("%s %s изменён(а) параллельно, перечитайте и повторите", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewSizeLimitExceeded(size, limit int64) *BusinessError {
	return &BusinessError{
		Code:    "SIZE_LIMIT_EXCEEDED",
		Message: fmt.Sprintf("Файл %d байт превышает предел %d байт", size, limit),
		Details: map[string]any{
			"size":  size,
			"limit": limit,
		},
	}
}

func NewStorageInconsistent(key string, err error) *BusinessError {
	return &BusinessError{
		Code:    "STORAGE_INCONSISTENT",
		Message: fmt.Sprintf("Бинарник и метаданные разошлись для ключа %s", key),
		Details: map[string]any{
			"storage_key": key,
		},
		Err: err,
	}
}
