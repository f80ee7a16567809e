package update_setup

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
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type flowServiceMock struct {
	mock.Mock
}

func (m *flowServiceMock) Update(ctx context.Context, id, userID string, req *models.UpdateFlowRequest) (*models.FlowResponse, error) {
	args := m.Called(ctx, id, userID, req)
	if f := args.Get(0); f != nil {
		return f.(*models.FlowResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func put(t *testing.T, svc FlowService, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/setup/{flowId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/setup/f1", strings.NewReader(body))
	req = req.WithContext(authctx.WithUser(req.Context(), "u1", "token"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_PartialDraftIsSaved(t *testing.T) {
	t.Parallel()

	svc := &flowServiceMock{}
	svc.On("Update", mock.Anything, "f1", "u1", mock.MatchedBy(func(r *models.UpdateFlowRequest) bool {
		return r.Schedule != nil && r.Schedule.Weekday != nil && *r.Schedule.Weekday == 2 && r.Schedule.TimeOfDay == ""
	})).Return(&models.FlowResponse{ID: "f1", Step: "schedule_selection"}, nil)

	rec := put(t, svc, `{"schedule":{"weekday":2}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_MalformedFieldsAreRejected(t *testing.T) {
	t.Parallel()

	svc := &flowServiceMock{}
	rec := put(t, svc, `{"schedule":{"weekday":9,"timeOfDay":"7pm","timezone":"Local"},"emergencyContact":{"name":"Grace","email":"not-an-email"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"must be less than or equal to 6"}, body.Fields["schedule.weekday"])
	assert.Equal(t, []string{"must be a time in HH:MM format"}, body.Fields["schedule.timeOfDay"])
	assert.Equal(t, []string{"must be a valid IANA timezone"}, body.Fields["schedule.timezone"])
	assert.Equal(t, []string{"must be a valid email address"}, body.Fields["emergencyContact.email"])
	assert.NotContains(t, body.Fields, "emergencyContact.name")

	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: flows.ErrFlowNotFound, status: http.StatusNotFound},
		{name: "foreign flow", err: flows.ErrAccessDenied, status: http.StatusForbidden},
		{name: "step locked", err: flows.ErrStepLocked, status: http.StatusConflict},
		{name: "processing", err: flows.ErrAlreadyProcessing, status: http.StatusConflict},
		{name: "internal", err: flows.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &flowServiceMock{}
			svc.On("Update", mock.Anything, "f1", "u1", mock.Anything).Return(nil, tt.err)

			rec := put(t, svc, `{"pricing":{"planCode":"weekly-50","confirmed":true}}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
