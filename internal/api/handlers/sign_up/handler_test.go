package sign_up

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.SignUpResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"email":"ada@example.com","password":"Abc123!@","confirmPassword":"Abc123!@","fullName":"Ada","timezone":"Europe/Berlin"}`

func post(svc AuthService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{}
	svc.On("SignUp", mock.Anything, mock.MatchedBy(func(r *models.SignUpRequest) bool {
		return r.Email == "ada@example.com" && r.Timezone == "Europe/Berlin"
	})).Return(&models.SignUpResponse{
		User:                 models.UserResponse{ID: "u1", Email: "ada@example.com"},
		ConfirmationRequired: true,
	}, nil)

	rec := post(svc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		User                 models.UserResponse `json:"user"`
		ConfirmationRequired bool                `json:"confirmationRequired"`
		Notice               notice.Notice       `json:"notice"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "u1", body.User.ID)
	assert.True(t, body.ConfirmationRequired)
	assert.Equal(t, notice.Success(notice.OpSignUp), body.Notice)
}

func TestHandler_ValidationErrors(t *testing.T) {
	t.Parallel()

	result := validation.NewResult()
	result.Add("confirmPassword", "passwords do not match")

	svc := &authServiceMock{}
	svc.On("SignUp", mock.Anything, mock.Anything).Return(nil, result.Err())

	rec := post(svc, validBody)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"passwords do not match"}, body.Fields["confirmPassword"])
	require.NotNil(t, body.Notice)
	assert.Equal(t, "confirmPassword passwords do not match", body.Notice.Message)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("already registered", func(t *testing.T) {
		t.Parallel()

		svc := &authServiceMock{}
		svc.On("SignUp", mock.Anything, mock.Anything).Return(nil, auth.ErrUserAlreadyExists)

		rec := post(svc, validBody)
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, msgUserExists, body.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		svc := &authServiceMock{}
		rec := post(svc, `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	})

	t.Run("auth service down", func(t *testing.T) {
		t.Parallel()

		svc := &authServiceMock{}
		svc.On("SignUp", mock.Anything, mock.Anything).Return(nil, auth.ErrInternal)

		rec := post(svc, validBody)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, notice.GenericErrorMessage, body.Error)
	})
}

func TestHandler_RequestFieldsCheckedBeforeService(t *testing.T) {
	t.Parallel()

	svc := &authServiceMock{}
	rec := post(svc, `{"email":"","password":"Abc123!@","confirmPassword":"Abc123!@","timezone":"Local"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"is required"}, body.Fields["email"])
	assert.Equal(t, []string{"must be a valid IANA timezone"}, body.Fields["timezone"])
	assert.NotContains(t, body.Fields, "password")
	require.NotNil(t, body.Notice)
	assert.Equal(t, notice.KindWarning, body.Notice.Kind)

	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}
