package get_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
)

const (
	msgInvalidFlowID = "invalid setup flow ID"
	msgMissingUserID = "missing user ID"
	msgNotFound      = "setup flow not found or expired"
	msgForbidden     = "access denied"
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

// Handle GET /api/v1/setup/{flowId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("GET /setup/{id} - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /setup/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	flow, err := h.service.Get(r.Context(), flowID, userID)
	if err != nil {
		switch {
		case errors.Is(err, flows.ErrFlowNotFound):
			h.logger.Warn("GET /setup/{id} - Flow not found: flow_id=%s", flowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, flows.ErrAccessDenied):
			h.logger.Warn("GET /setup/{id} - Access denied: flow_id=%s, user_id=%s", flowID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /setup/{id} - Failed to get flow: flow_id=%s, error=%v", flowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, flow)
}
