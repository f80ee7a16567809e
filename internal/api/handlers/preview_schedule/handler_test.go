package preview_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	previewSchedule "github.com/m04kA/SMC-TherapySessions/internal/usecase/preview_schedule"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *previewSchedule.Request) (*previewSchedule.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*previewSchedule.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func post(uc PreviewUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Preview(t *testing.T) {
	t.Parallel()

	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *previewSchedule.Request) bool {
		return r.Weekday != nil && *r.Weekday == 1 && r.TimeOfDay == "18:30" && r.Count == 2 && r.From.IsZero()
	})).Return(&previewSchedule.Response{
		Summary: "Every week on Monday at 18:30 (Europe/Berlin)",
		Occurrences: []previewSchedule.Occurrence{
			{At: time.Date(2025, 1, 13, 17, 30, 0, 0, time.UTC), Local: "Mon, 13 Jan 2025 18:30 CET", Display: "Mon, 13 Jan 2025 18:30 CET", DisplayDual: "Mon, 13 Jan 2025 18:30 CET"},
		},
	}, nil)

	rec := post(uc, `{"weekday":1,"timeOfDay":"18:30","frequency":"weekly","timezone":"Europe/Berlin","count":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body PreviewResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Every week on Monday at 18:30 (Europe/Berlin)", body.Summary)
	require.Len(t, body.Occurrences, 1)
	assert.Equal(t, "2025-01-13T17:30:00Z", body.Occurrences[0].StartsAt)
}

func TestHandler_ValidationFailure(t *testing.T) {
	t.Parallel()

	result := validation.NewResult()
	result.Add("timezone", "is not a known timezone")

	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, result.Err())

	rec := post(uc, `{"weekday":1,"timeOfDay":"18:30","frequency":"weekly","timezone":"Mars/Base"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"is not a known timezone"}, body.Fields["timezone"])
}

func TestHandler_RequestFieldsCheckedBeforeUseCase(t *testing.T) {
	t.Parallel()

	uc := &useCaseMock{}
	rec := post(uc, `{"timeOfDay":"25:00","frequency":"weekly","timezone":"Europe/Berlin","count":100,"skipDates":["2025-13-01"]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"is required"}, body.Fields["weekday"])
	assert.Equal(t, []string{"must be a time in HH:MM format"}, body.Fields["timeOfDay"])
	assert.Equal(t, []string{"must be less than or equal to 52"}, body.Fields["count"])
	assert.Equal(t, []string{"must be a date in YYYY-MM-DD format"}, body.Fields["skipDates[0]"])

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
