package abandon_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
)

const (
	msgInvalidFlowID = "invalid setup flow ID"
	msgMissingUserID = "missing user ID"
	msgNotFound      = "setup flow not found or expired"
	msgForbidden     = "access denied"
	msgProcessing    = "setup is being completed and cannot be discarded"
)

type Handler struct {
	service FlowService
	logger  Logger
}

func NewHandler(service FlowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/setup/{flowId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("DELETE /setup/{id} - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /setup/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Abandon(r.Context(), flowID, userID); err != nil {
		fail := func(status int, msg string) {
			handlers.RespondErrorNotice(w, status, msg,
				notice.FromError(notice.OpAbandonSetup, notice.Message(err, msg)))
		}
		switch {
		case errors.Is(err, flows.ErrFlowNotFound):
			h.logger.Warn("DELETE /setup/{id} - Flow not found: flow_id=%s", flowID)
			fail(http.StatusNotFound, msgNotFound)

		case errors.Is(err, flows.ErrAccessDenied):
			h.logger.Warn("DELETE /setup/{id} - Access denied: flow_id=%s, user_id=%s", flowID, userID)
			fail(http.StatusForbidden, msgForbidden)

		case errors.Is(err, flows.ErrAlreadyProcessing):
			h.logger.Warn("DELETE /setup/{id} - Flow is processing: flow_id=%s", flowID)
			fail(http.StatusConflict, msgProcessing)

		default:
			h.logger.Error("DELETE /setup/{id} - Failed to abandon flow: flow_id=%s, error=%v", flowID, err)
			handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
				notice.FromError(notice.OpAbandonSetup, err))
		}
		return
	}

	h.logger.Info("DELETE /setup/{id} - Flow abandoned: flow_id=%s, user_id=%s", flowID, userID)
	handlers.RespondJSON(w, http.StatusOK, AbandonResponse{
		Success: true,
		Notice:  notice.Success(notice.OpAbandonSetup),
	})
}
