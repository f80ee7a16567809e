package cancel_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions"
)

const (
	msgInvalidSessionID = "invalid session ID"
	msgMissingUserID    = "missing user ID"
	msgNotFound         = "session not found"
	msgForbidden        = "access denied"
	msgCannotCancel     = "session cannot be cancelled"
	msgTooLate          = "session starts too soon to be cancelled"
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

// Handle PATCH /api/v1/sessions/{sessionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("PATCH /sessions/{id}/cancel - Empty session ID")
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /sessions/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Cancel(r.Context(), sessionID, userID); err != nil {
		h.respondError(w, err, sessionID, userID)
		return
	}

	h.logger.Info("PATCH /sessions/{id}/cancel - Session cancelled: session_id=%s, user_id=%s", sessionID, userID)
	handlers.RespondJSON(w, http.StatusOK, CancelSessionResponse{
		SessionID: sessionID,
		Status:    string(domain.SessionCancelled),
		Notice:    notice.Success(notice.OpCancelSession),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, sessionID, userID string) {
	fail := func(status int, msg string) {
		handlers.RespondErrorNotice(w, status, msg,
			notice.FromError(notice.OpCancelSession, notice.Message(err, msg)))
	}

	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		h.logger.Warn("PATCH /sessions/{id}/cancel - Session not found: session_id=%s", sessionID)
		fail(http.StatusNotFound, msgNotFound)

	case errors.Is(err, sessions.ErrAccessDenied):
		h.logger.Warn("PATCH /sessions/{id}/cancel - Access denied: session_id=%s, user_id=%s", sessionID, userID)
		fail(http.StatusForbidden, msgForbidden)

	case errors.Is(err, sessions.ErrTooLateToCancel):
		h.logger.Warn("PATCH /sessions/{id}/cancel - Too late to cancel: session_id=%s", sessionID)
		fail(http.StatusConflict, msgTooLate)

	case errors.Is(err, sessions.ErrCannotCancel):
		h.logger.Warn("PATCH /sessions/{id}/cancel - Cannot cancel: session_id=%s", sessionID)
		fail(http.StatusConflict, msgCannotCancel)

	default:
		h.logger.Error("PATCH /sessions/{id}/cancel - Failed to cancel session: session_id=%s, error=%v", sessionID, err)
		handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
			notice.FromError(notice.OpCancelSession, err))
	}
}
