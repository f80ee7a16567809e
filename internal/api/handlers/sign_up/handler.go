package sign_up

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
	msgUserExists         = "an account with this email already exists"
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

// Handle POST /api/v1/auth/sign-up
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/sign-up - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("POST /auth/sign-up - Invalid request fields: %v", result.Err())
		handlers.RespondValidationError(w, result.Err(), notice.OpSignUp)
		return
	}

	resp, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		if handlers.RespondValidationError(w, err, notice.OpSignUp) {
			h.logger.Warn("POST /auth/sign-up - Validation failed: %v", err)
			return
		}
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			h.logger.Warn("POST /auth/sign-up - User already exists")
			handlers.RespondErrorNotice(w, http.StatusConflict, msgUserExists,
				notice.FromError(notice.OpSignUp, notice.Message(err, msgUserExists)))

		default:
			h.logger.Error("POST /auth/sign-up - Failed to sign up: %v", err)
			handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
				notice.FromError(notice.OpSignUp, err))
		}
		return
	}

	h.logger.Info("POST /auth/sign-up - User registered: user_id=%s, confirmation_required=%t",
		resp.User.ID, resp.ConfirmationRequired)
	handlers.RespondJSON(w, http.StatusCreated, SignUpResponse{
		SignUpResponse: resp,
		Notice:         notice.Success(notice.OpSignUp),
	})
}
