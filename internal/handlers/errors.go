package handlers

import (
	"errors"
	"net/http"

	"orgBoard/internal/logger"
	"orgBoard/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return true
	}
	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "AUTHENTICATION_ERROR":
		return http.StatusUnauthorized
	case "PERMISSION_DENIED":
		return http.StatusForbidden
	case "VERSION_CONFLICT":
		return http.StatusConflict
	case "SIZE_LIMIT_EXCEEDED":
		return http.StatusRequestEntityTooLarge
	case "STORAGE_INCONSISTENT":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
