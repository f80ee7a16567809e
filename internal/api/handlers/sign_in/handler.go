package sign_in

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCredentials = "invalid email or password"
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

// Handle POST /api/v1/auth/sign-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/sign-in - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("POST /auth/sign-in - Invalid request fields: %v", result.Err())
		handlers.RespondValidationError(w, result.Err(), notice.OpSignIn)
		return
	}

	session, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		if handlers.RespondValidationError(w, err, notice.OpSignIn) {
			h.logger.Warn("POST /auth/sign-in - Validation failed: %v", err)
			return
		}
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/sign-in - Invalid credentials")
			handlers.RespondErrorNotice(w, http.StatusUnauthorized, msgInvalidCredentials,
				notice.FromError(notice.OpSignIn, notice.Message(err, msgInvalidCredentials)))

		default:
			h.logger.Error("POST /auth/sign-in - Failed to sign in: %v", err)
			handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
				notice.FromError(notice.OpSignIn, err))
		}
		return
	}

	h.logger.Info("POST /auth/sign-in - User signed in: user_id=%s", session.User.ID)
	handlers.RespondJSON(w, http.StatusOK, SignInResponse{
		SessionResponse: session,
		Notice:          notice.Success(notice.OpSignIn),
	})
}
