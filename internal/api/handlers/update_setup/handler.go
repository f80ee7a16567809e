package update_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgInvalidFlowID      = "invalid setup flow ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgNotFound           = "setup flow not found or expired"
	msgForbidden          = "access denied"
	msgNothingToUpdate    = "request contains no step data"
	msgStepLocked         = "this step is not reached yet"
	msgProcessing         = "setup is being completed, try again later"
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

// Handle PUT /api/v1/setup/{flowId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("PUT /setup/{id} - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /setup/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateFlowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /setup/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("PUT /setup/{id} - Invalid request fields: flow_id=%s, error=%v", flowID, result.Err())
		handlers.RespondValidation(w, result, nil)
		return
	}

	flow, err := h.service.Update(r.Context(), flowID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, flows.ErrFlowNotFound):
			h.logger.Warn("PUT /setup/{id} - Flow not found: flow_id=%s", flowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, flows.ErrAccessDenied):
			h.logger.Warn("PUT /setup/{id} - Access denied: flow_id=%s, user_id=%s", flowID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, flows.ErrInvalidInput):
			h.logger.Warn("PUT /setup/{id} - Empty update: flow_id=%s", flowID)
			handlers.RespondBadRequest(w, msgNothingToUpdate)

		case errors.Is(err, flows.ErrStepLocked):
			h.logger.Warn("PUT /setup/{id} - Step locked: flow_id=%s, error=%v", flowID, err)
			handlers.RespondConflict(w, msgStepLocked)

		case errors.Is(err, flows.ErrAlreadyProcessing):
			h.logger.Warn("PUT /setup/{id} - Flow is processing: flow_id=%s", flowID)
			handlers.RespondConflict(w, msgProcessing)

		default:
			h.logger.Error("PUT /setup/{id} - Failed to update flow: flow_id=%s, error=%v", flowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /setup/{id} - Flow updated: flow_id=%s, step=%s", flowID, flow.Step)
	handlers.RespondJSON(w, http.StatusOK, flow)
}
