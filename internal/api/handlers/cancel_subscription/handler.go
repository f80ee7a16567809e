package cancel_subscription

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgInvalidSubscriptionID = "invalid subscription ID"
	msgInvalidRequestBody    = "invalid request body"
	msgMissingUserID         = "missing user ID"
	msgNotFound              = "subscription not found"
	msgForbidden             = "access denied"
	msgCannotCancel          = "subscription is already cancelled"
	msgReasonTooLong         = "cancellation reason is too long"
)

type Handler struct {
	service SubscriptionService
	logger  Logger
}

func NewHandler(service SubscriptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/subscriptions/{subscriptionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID := mux.Vars(r)["subscriptionId"]
	if subscriptionID == "" {
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Empty subscription ID")
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelSubscriptionRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /subscriptions/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Invalid request fields: %v", result.Err())
		handlers.RespondValidationError(w, result.Err(), notice.OpCancelSubscription)
		return
	}

	resp, err := h.service.Cancel(r.Context(), subscriptionID, req.ToServiceRequest(userID))
	if err != nil {
		h.respondError(w, err, subscriptionID, userID)
		return
	}

	h.logger.Info("PATCH /subscriptions/{id}/cancel - Subscription cancelled: subscription_id=%s, user_id=%s, sessions=%d",
		subscriptionID, userID, resp.CancelledSessions)
	handlers.RespondJSON(w, http.StatusOK, CancelSubscriptionResponse{
		CancelSubscriptionResponse: resp,
		Notice:                     notice.Success(notice.OpCancelSubscription),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, subscriptionID, userID string) {
	fail := func(status int, msg string) {
		handlers.RespondErrorNotice(w, status, msg,
			notice.FromError(notice.OpCancelSubscription, notice.Message(err, msg)))
	}

	switch {
	case errors.Is(err, subscriptions.ErrSubscriptionNotFound):
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Subscription not found: subscription_id=%s", subscriptionID)
		fail(http.StatusNotFound, msgNotFound)

	case errors.Is(err, subscriptions.ErrAccessDenied):
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Access denied: subscription_id=%s, user_id=%s",
			subscriptionID, userID)
		fail(http.StatusForbidden, msgForbidden)

	case errors.Is(err, subscriptions.ErrCannotCancel):
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Cannot cancel: subscription_id=%s", subscriptionID)
		fail(http.StatusConflict, msgCannotCancel)

	case errors.Is(err, subscriptions.ErrInvalidInput):
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Invalid input: %v", err)
		fail(http.StatusBadRequest, msgReasonTooLong)

	default:
		h.logger.Error("PATCH /subscriptions/{id}/cancel - Failed to cancel subscription: subscription_id=%s, error=%v",
			subscriptionID, err)
		handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
			notice.FromError(notice.OpCancelSubscription, err))
	}
}
