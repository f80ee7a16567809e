package back_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
)

const (
	msgInvalidFlowID  = "invalid setup flow ID"
	msgMissingUserID  = "missing user ID"
	msgNotFound       = "setup flow not found or expired"
	msgForbidden      = "access denied"
	msgNoPreviousStep = "already at the first step"
	msgProcessing     = "setup is being completed, try again later"
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

// Handle POST /api/v1/setup/{flowId}/back
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("POST /setup/{id}/back - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /setup/{id}/back - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	flow, err := h.service.Back(r.Context(), flowID, userID)
	if err != nil {
		switch {
		case errors.Is(err, flows.ErrFlowNotFound):
			h.logger.Warn("POST /setup/{id}/back - Flow not found: flow_id=%s", flowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, flows.ErrAccessDenied):
			h.logger.Warn("POST /setup/{id}/back - Access denied: flow_id=%s, user_id=%s", flowID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, flows.ErrNoPreviousStep):
			h.logger.Warn("POST /setup/{id}/back - No previous step: flow_id=%s", flowID)
			handlers.RespondConflict(w, msgNoPreviousStep)

		case errors.Is(err, flows.ErrAlreadyProcessing):
			h.logger.Warn("POST /setup/{id}/back - Flow is processing: flow_id=%s", flowID)
			handlers.RespondConflict(w, msgProcessing)

		default:
			h.logger.Error("POST /setup/{id}/back - Failed to go back: flow_id=%s, error=%v", flowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /setup/{id}/back - Flow moved back: flow_id=%s, step=%s", flowID, flow.Step)
	handlers.RespondJSON(w, http.StatusOK, flow)
}
