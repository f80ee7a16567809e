package cancel_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type sessionServiceMock struct {
	mock.Mock
}

func (m *sessionServiceMock) Cancel(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type responseBody struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	SessionID string         `json:"sessionId"`
	Status    string         `json:"status"`
	Notice    *notice.Notice `json:"notice"`
}

func serve(t *testing.T, svc SessionService, userID string) (int, responseBody) {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/{sessionId}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/s1/cancel", nil)
	if userID != "" {
		req = req.WithContext(authctx.WithUser(req.Context(), userID, "token"))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body responseBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHandler_Success(t *testing.T) {
	t.Parallel()

	svc := &sessionServiceMock{}
	svc.On("Cancel", mock.Anything, "s1", "u1").Return(nil)

	code, body := serve(t, svc, "u1")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", body.Status)
	assert.Equal(t, "s1", body.SessionID)
	require.NotNil(t, body.Notice)
	assert.Equal(t, notice.KindSuccess, body.Notice.Kind)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "not found", err: sessions.ErrSessionNotFound, status: http.StatusNotFound, message: msgNotFound},
		{name: "foreign session", err: sessions.ErrAccessDenied, status: http.StatusForbidden, message: msgForbidden},
		{name: "inside notice window", err: sessions.ErrTooLateToCancel, status: http.StatusConflict, message: msgTooLate},
		{name: "already cancelled", err: sessions.ErrCannotCancel, status: http.StatusConflict, message: msgCannotCancel},
		{name: "unexpected", err: fmt.Errorf("%w: db down", sessions.ErrInternal), status: http.StatusInternalServerError, message: notice.GenericErrorMessage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &sessionServiceMock{}
			svc.On("Cancel", mock.Anything, "s1", "u1").Return(tt.err)

			code, body := serve(t, svc, "u1")

			assert.Equal(t, tt.status, code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
			require.NotNil(t, body.Notice)
			assert.Equal(t, notice.KindError, body.Notice.Kind)
			assert.Equal(t, tt.message, body.Notice.Message)
		})
	}
}

func TestHandler_MissingUser(t *testing.T) {
	t.Parallel()

	svc := &sessionServiceMock{}
	code, body := serve(t, svc, "")

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, msgMissingUserID, body.Error)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}
