package get_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth"
)

const (
	msgMissingToken = "missing access token"
	msgNoSession    = "session is no longer active"
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

// Handle GET /api/v1/auth/session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetAccessToken(r.Context())
	if !ok {
		h.logger.Warn("GET /auth/session - Missing access token")
		handlers.RespondUnauthorized(w, msgMissingToken)
		return
	}

	session, err := h.service.CurrentSession(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			h.logger.Warn("GET /auth/session - Session is not active")
			handlers.RespondUnauthorized(w, msgNoSession)

		default:
			h.logger.Error("GET /auth/session - Failed to get session: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /auth/session - Session retrieved: user_id=%s", session.User.ID)
	handlers.RespondJSON(w, http.StatusOK, session)
}
