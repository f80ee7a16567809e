package complete_setup

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	completeSetup "github.com/m04kA/SMC-TherapySessions/internal/usecase/complete_setup"
)

const (
	msgInvalidFlowID   = "invalid setup flow ID"
	msgMissingUserID   = "missing user ID"
	msgNotFound        = "setup flow not found or expired"
	msgForbidden       = "access denied"
	msgNotFinalStep    = "setup is not at the confirmation step"
	msgProcessing      = "setup is already being completed"
	msgPaymentDeclined = "the payment method was declined"
	msgNoSessions      = "the selected schedule has no upcoming sessions"
	msgInvalidInput    = "setup data is incomplete or invalid"
)

type Handler struct {
	useCase CompleteSetupUseCase
	logger  Logger
}

func NewHandler(useCase CompleteSetupUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/setup/{flowId}/complete?timezone=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if flowID == "" {
		h.logger.Warn("POST /setup/{id}/complete - Empty flow ID")
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /setup/{id}/complete - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &completeSetup.Request{
		FlowID:         flowID,
		UserID:         userID,
		ViewerTimezone: r.URL.Query().Get("timezone"),
	})
	if err != nil {
		h.respondError(w, err, flowID, userID)
		return
	}

	h.logger.Info("POST /setup/{id}/complete - Subscription created: flow_id=%s, subscription_id=%s, user_id=%s",
		flowID, resp.Subscription.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, flowID, userID string) {
	fail := func(status int, msg string) {
		handlers.RespondErrorNotice(w, status, msg,
			notice.FromError(notice.OpCompleteSetup, notice.Message(err, msg)))
	}

	// Данные одного из шагов устарели: отдаём ошибки полей
	if handlers.RespondValidationError(w, err, notice.OpCompleteSetup) {
		h.logger.Warn("POST /setup/{id}/complete - Flow invalid: flow_id=%s, error=%v", flowID, err)
		return
	}

	switch {
	case errors.Is(err, completeSetup.ErrFlowNotFound):
		h.logger.Warn("POST /setup/{id}/complete - Flow not found: flow_id=%s", flowID)
		fail(http.StatusNotFound, msgNotFound)

	case errors.Is(err, completeSetup.ErrAccessDenied):
		h.logger.Warn("POST /setup/{id}/complete - Access denied: flow_id=%s, user_id=%s", flowID, userID)
		fail(http.StatusForbidden, msgForbidden)

	case errors.Is(err, completeSetup.ErrNotFinalStep):
		h.logger.Warn("POST /setup/{id}/complete - Not at final step: flow_id=%s", flowID)
		fail(http.StatusConflict, msgNotFinalStep)

	case errors.Is(err, completeSetup.ErrAlreadyProcessing):
		h.logger.Warn("POST /setup/{id}/complete - Already processing: flow_id=%s", flowID)
		fail(http.StatusConflict, msgProcessing)

	case errors.Is(err, completeSetup.ErrPaymentDeclined):
		h.logger.Warn("POST /setup/{id}/complete - Payment declined: flow_id=%s, error=%v", flowID, err)
		fail(http.StatusPaymentRequired, msgPaymentDeclined)

	case errors.Is(err, completeSetup.ErrNoSessions):
		h.logger.Warn("POST /setup/{id}/complete - Schedule yields no sessions: flow_id=%s", flowID)
		fail(http.StatusUnprocessableEntity, msgNoSessions)

	case errors.Is(err, completeSetup.ErrInvalidInput):
		h.logger.Warn("POST /setup/{id}/complete - Invalid input: flow_id=%s, error=%v", flowID, err)
		fail(http.StatusBadRequest, msgInvalidInput)

	default:
		h.logger.Error("POST /setup/{id}/complete - Failed to complete setup: flow_id=%s, error=%v", flowID, err)
		handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
			notice.FromError(notice.OpCompleteSetup, err))
	}
}
