package refresh_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidToken       = "refresh token is invalid or expired"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/refresh
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/refresh - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("POST /auth/refresh - Invalid request fields: %v", result.Err())
		handlers.RespondValidation(w, result, nil)
		return
	}

	session, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			h.logger.Warn("POST /auth/refresh - Refresh token rejected")
			handlers.RespondUnauthorized(w, msgInvalidToken)

		default:
			h.logger.Error("POST /auth/refresh - Failed to refresh session: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/refresh - Session refreshed: user_id=%s", session.User.ID)
	handlers.RespondJSON(w, http.StatusOK, session)
}
