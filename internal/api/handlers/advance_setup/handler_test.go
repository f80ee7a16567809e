package advance_setup

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
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type flowServiceMock struct {
	mock.Mock
}

func (m *flowServiceMock) Advance(ctx context.Context, id, userID string) (*models.FlowResponse, error) {
	args := m.Called(ctx, id, userID)
	if f := args.Get(0); f != nil {
		return f.(*models.FlowResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(t *testing.T, svc FlowService) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/setup/{flowId}/advance", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/setup/f1/advance", nil)
	req = req.WithContext(authctx.WithUser(req.Context(), "u1", "token"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Advanced(t *testing.T) {
	t.Parallel()

	svc := &flowServiceMock{}
	svc.On("Advance", mock.Anything, "f1", "u1").
		Return(&models.FlowResponse{ID: "f1", Step: "pricing_confirmation", StepIndex: 1}, nil)

	rec := serve(t, svc)
	require.Equal(t, http.StatusOK, rec.Code)

	var body AdvanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "pricing_confirmation", body.Step)
	assert.Equal(t, notice.KindSuccess, body.Notice.Kind)
}

func TestHandler_StepInvalidReturnsFieldsAndFlow(t *testing.T) {
	t.Parallel()

	result := validation.NewResult()
	result.Add("schedule.timeOfDay", "the therapist is not available at the selected time")
	flow := &models.FlowResponse{ID: "f1", Step: "schedule_selection", Errors: result}

	svc := &flowServiceMock{}
	svc.On("Advance", mock.Anything, "f1", "u1").
		Return(flow, fmt.Errorf("%w: %w", flows.ErrStepInvalid, result.Err()))

	rec := serve(t, svc)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body InvalidStepResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, msgStepInvalid, body.Error)
	assert.Equal(t, []string{"the therapist is not available at the selected time"}, body.Fields["schedule.timeOfDay"])
	assert.Equal(t, notice.KindWarning, body.Notice.Kind)
	require.NotNil(t, body.Flow)
	assert.Equal(t, "schedule_selection", body.Flow.Step)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{err: flows.ErrFlowNotFound, status: http.StatusNotFound},
		{err: flows.ErrAccessDenied, status: http.StatusForbidden},
		{err: flows.ErrNoNextStep, status: http.StatusConflict},
		{err: flows.ErrAlreadyProcessing, status: http.StatusConflict},
		{err: fmt.Errorf("%w: availability down", flows.ErrInternal), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()

			svc := &flowServiceMock{}
			svc.On("Advance", mock.Anything, "f1", "u1").Return(nil, tt.err)

			rec := serve(t, svc)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
