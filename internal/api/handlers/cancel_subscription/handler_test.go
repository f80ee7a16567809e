package cancel_subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type subscriptionServiceMock struct {
	mock.Mock
}

func (m *subscriptionServiceMock) Cancel(ctx context.Context, id string, req *models.CancelSubscriptionRequest) (*models.CancelSubscriptionResponse, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*models.CancelSubscriptionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func patch(t *testing.T, svc SubscriptionService, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/subscriptions/{subscriptionId}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/subscriptions/sub-1/cancel", strings.NewReader(body))
	req = req.WithContext(authctx.WithUser(req.Context(), "u1", "token"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CancelWithoutBody(t *testing.T) {
	t.Parallel()

	svc := &subscriptionServiceMock{}
	svc.On("Cancel", mock.Anything, "sub-1", mock.MatchedBy(func(r *models.CancelSubscriptionRequest) bool {
		return r.UserID == "u1" && r.Reason == nil
	})).Return(&models.CancelSubscriptionResponse{CancelledSessions: 3}, nil)

	rec := patch(t, svc, "")
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_ReasonTooLong(t *testing.T) {
	t.Parallel()

	svc := &subscriptionServiceMock{}
	rec := patch(t, svc, `{"reason":"`+strings.Repeat("я", 501)+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"must be at most 500 characters"}, body.Fields["reason"])
	require.NotNil(t, body.Notice)

	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ReasonAtLimitIsAccepted(t *testing.T) {
	t.Parallel()

	svc := &subscriptionServiceMock{}
	svc.On("Cancel", mock.Anything, "sub-1", mock.Anything).
		Return(&models.CancelSubscriptionResponse{}, nil)

	rec := patch(t, svc, `{"reason":"`+strings.Repeat("я", 500)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	svc := &subscriptionServiceMock{}
	svc.On("Cancel", mock.Anything, "sub-1", mock.Anything).Return(nil, subscriptions.ErrCannotCancel)

	rec := patch(t, svc, `{"reason":"moving abroad"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, msgCannotCancel, body.Error)
}
