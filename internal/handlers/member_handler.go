package handlers

import (
	"net/http"

	"orgBoard/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MemberHandler struct {
	service MemberService
}

func NewMemberHandler(service MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// ListMembers обрабатывает GET /organisations/{orgID}/members.
// Список собирается из владельца и участников группы организации.
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN: Участники организации")

	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		logger.Warn("HTTP: Некорректный идентификатор организации", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "некорректный идентификатор организации")
		return
	}

	members, err := h.service.ResolveOrganisationMembers(r.Context(), orgID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Не удалось собрать участников организации", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("members", members),
		toPayload("count", len(members)),
	)
}
