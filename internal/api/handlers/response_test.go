package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

func TestRespondError_Shape(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondInternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"An unexpected error occurred"}`, rec.Body.String())
}

func TestRespondValidationError(t *testing.T) {
	t.Parallel()

	result := validation.NewResult()
	result.Add("email", "is not a valid email address")

	rec := httptest.NewRecorder()
	ok := RespondValidationError(rec, result.Err(), notice.OpSignUp)
	require.True(t, ok)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"is not a valid email address"}, body.Fields["email"])
	require.NotNil(t, body.Notice)
	assert.Equal(t, notice.KindWarning, body.Notice.Kind)

	rec = httptest.NewRecorder()
	assert.False(t, RespondValidationError(rec, assert.AnError, notice.OpSignUp))
	assert.Equal(t, 0, rec.Body.Len())
}

func TestRespondJSON_NilPayload(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"Ada"}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "unknown field", body: `{"name":"Ada","admin":true}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(req, &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ada", p.Name)
		})
	}
}
