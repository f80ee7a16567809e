package advance_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgInvalidFlowID = "invalid setup flow ID"
	msgMissingUserID = "missing user ID"
	msgNotFound      = "setup flow not found or expired"
	msgForbidden     = "access denied"
	msgStepInvalid   = "current step is invalid"
	msgNoNextStep    = "already at the last step"
	msgProcessing    = "setup is being completed, try again later"
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

// Handle POST /api/v1/setup/{flowId}/advance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("POST /setup/{id}/advance - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /setup/{id}/advance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	flow, err := h.service.Advance(r.Context(), flowID, userID)
	if err != nil {
		switch {
		case errors.Is(err, flows.ErrStepInvalid):
			h.logger.Warn("POST /setup/{id}/advance - Step invalid: flow_id=%s, error=%v", flowID, err)
			fields, _ := validation.AsResult(err)
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, InvalidStepResponse{
				Error:  msgStepInvalid,
				Fields: fields,
				Notice: notice.FromError(notice.OpAdvanceSetup, err),
				Flow:   flow,
			})

		case errors.Is(err, flows.ErrFlowNotFound):
			h.logger.Warn("POST /setup/{id}/advance - Flow not found: flow_id=%s", flowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, flows.ErrAccessDenied):
			h.logger.Warn("POST /setup/{id}/advance - Access denied: flow_id=%s, user_id=%s", flowID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, flows.ErrNoNextStep):
			h.logger.Warn("POST /setup/{id}/advance - No next step: flow_id=%s", flowID)
			handlers.RespondConflict(w, msgNoNextStep)

		case errors.Is(err, flows.ErrAlreadyProcessing):
			h.logger.Warn("POST /setup/{id}/advance - Flow is processing: flow_id=%s", flowID)
			handlers.RespondConflict(w, msgProcessing)

		default:
			h.logger.Error("POST /setup/{id}/advance - Failed to advance flow: flow_id=%s, error=%v", flowID, err)
			handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
				notice.FromError(notice.OpAdvanceSetup, err))
		}
		return
	}

	h.logger.Info("POST /setup/{id}/advance - Flow advanced: flow_id=%s, step=%s", flowID, flow.Step)
	handlers.RespondJSON(w, http.StatusOK, AdvanceResponse{
		FlowResponse: flow,
		Notice:       notice.Success(notice.OpAdvanceSetup),
	})
}
