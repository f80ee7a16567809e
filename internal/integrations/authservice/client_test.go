package authservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", 5*time.Second, logger.NewNop())
}

func TestClient_SignIn(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body passwordGrantRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Password != "Abc123!@" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,"user":{"id":"u1","email":"a@b.io"}}`))
	})

	var events []Event
	sub := client.OnAuthStateChange(func(e Event, _ *Session) { events = append(events, e) })
	defer sub.Unsubscribe()

	session, err := client.SignIn(context.Background(), "a@b.io", "Abc123!@")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)

	_, err = client.SignIn(context.Background(), "a@b.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, []Event{EventSignedIn}, events)
}

func TestClient_SignUp(t *testing.T) {
	t.Parallel()

	t.Run("email confirmation pending", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body signUpRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Europe/Berlin", body.Data["timezone"])
			_, _ = w.Write([]byte(`{"id":"u2","email":"new@b.io"}`))
		})

		user, session, err := client.SignUp(context.Background(), "new@b.io", "Abc123!@", map[string]interface{}{"timezone": "Europe/Berlin"})
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Equal(t, "u2", user.ID)
	})

	t.Run("already registered", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})

		_, _, err := client.SignUp(context.Background(), "dup@b.io", "Abc123!@", nil)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestClient_GetSession(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.io"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	session, err := client.GetSession(context.Background(), "good")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.User.ID)

	session, err = client.GetSession(context.Background(), "expired")
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = client.GetSession(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, session)

	_, err = client.GetSession(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_SignOutAndRefreshEmitEvents(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/auth/v1/token":
			var body refreshGrantRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.RefreshToken != "rt" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","user":{"id":"u1"}}`))
		}
	})

	var events []Event
	sub := client.OnAuthStateChange(func(e Event, _ *Session) { events = append(events, e) })

	session, err := client.RefreshSession(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "at2", session.AccessToken)

	_, err = client.RefreshSession(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, client.SignOut(context.Background(), "at2"))
	assert.Equal(t, []Event{EventTokenRefreshed, EventSignedOut}, events)

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, client.SignOut(context.Background(), "at2"))
	assert.Len(t, events, 2)
}
