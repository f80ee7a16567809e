package dataservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
	"github.com/m04kA/SMC-TherapySessions/pkg/ptr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "service-key", 5*time.Second, logger.NewNop())
}

func TestClient_NonSuccessStatusIsRequestFailed(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})

			err := client.List(context.Background(), ResourceSubscriptions, nil, &[]SubscriptionRow{})
			assert.ErrorIs(t, err, ErrRequestFailed)

			err = client.Delete(context.Background(), ResourceSessions, "s1")
			assert.ErrorIs(t, err, ErrRequestFailed)
		})
	}
}

func TestClient_UsesUserTokenFromContext(t *testing.T) {
	t.Parallel()

	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	require.NoError(t, client.List(context.Background(), ResourceAvailability, nil, &[]AvailabilityRow{}))
	ctx := authctx.WithUser(context.Background(), "u1", "user-token")
	require.NoError(t, client.List(ctx, ResourceAvailability, nil, &[]AvailabilityRow{}))

	assert.Equal(t, []string{"Bearer service-key", "Bearer user-token"}, seen)
}

func TestSubscriptionStore_GetByID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/subscriptions", r.URL.Path)
		if r.URL.Query().Get("id") != "eq.sub-1" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"sub-1","user_id":"u1","therapist_id":"th-1","plan_code":"weekly-50","weekday":1,
			"start_time":"18:30:00","frequency":"weekly","timezone":"Europe/Berlin","duration_minutes":50,
			"price_minor":9000,"currency":"EUR","status":"active","starts_on":"2025-01-13"}]`))
	})
	store := NewSubscriptionStore(client)

	sub, err := store.GetByID(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "18:30", sub.StartTime.String())
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), sub.StartsOn)

	_, err = store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_ListBuildsFilters(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"s1","subscription_id":"sub-1","user_id":"u1","therapist_id":"th-1",
			"starts_at":"2025-01-13T17:30:00Z","duration_minutes":50,"timezone":"Europe/Berlin","status":"scheduled"}]`))
	})
	store := NewSessionStore(client)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	sessions, err := store.List(context.Background(), domain.SessionsFilter{
		UserID: "u1",
		From:   &from,
		To:     &to,
		Status: ptr.Ptr(domain.SessionScheduled),
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Date(2025, 1, 13, 17, 30, 0, 0, time.UTC), sessions[0].StartsAt)

	assert.Equal(t, "eq.u1", query.Get("user_id"))
	assert.Equal(t, []string{"gte.2025-01-01T00:00:00Z", "lt.2025-02-01T00:00:00Z"}, query["starts_at"])
	assert.Equal(t, "eq.scheduled", query.Get("status"))
	assert.Equal(t, "starts_at.asc", query.Get("order"))
}

func TestSessionStore_CreateBatch(t *testing.T) {
	t.Parallel()

	var body []SessionRow
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	})
	store := NewSessionStore(client)

	err := store.CreateBatch(context.Background(), []*domain.Session{
		{ID: "s1", SubscriptionID: "sub-1", StartsAt: time.Date(2025, 1, 13, 17, 30, 0, 0, time.UTC), Status: domain.SessionScheduled},
		{ID: "s2", SubscriptionID: "sub-1", StartsAt: time.Date(2025, 1, 20, 17, 30, 0, 0, time.UTC), Status: domain.SessionScheduled},
	})
	require.NoError(t, err)
	assert.Len(t, body, 2)

	assert.NoError(t, store.CreateBatch(context.Background(), nil))
}

func TestSubscriptionStore_CancelMissing(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		_, _ = w.Write([]byte(`[]`))
	})

	err := NewSubscriptionStore(client).Cancel(context.Background(), "gone", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
