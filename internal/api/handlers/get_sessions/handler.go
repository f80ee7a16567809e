package get_sessions

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions"
)

const (
	msgMissingUserID  = "missing user ID"
	msgInvalidPeriod  = "invalid from/to: use RFC 3339 or YYYY-MM-DD"
	msgInvalidFilters = "invalid filters"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseQuery(userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /sessions - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	resp, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("GET /sessions - Invalid filters: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidFilters)

		default:
			h.logger.Error("GET /sessions - Failed to list sessions: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions - Sessions retrieved: user_id=%s, count=%d", userID, len(resp.Sessions))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
