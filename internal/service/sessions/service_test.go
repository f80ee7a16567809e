package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions/models"
	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
	"github.com/m04kA/SMC-TherapySessions/pkg/ptr"
)

type sessionRepoMock struct{ mock.Mock }

func (m *sessionRepoMock) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *sessionRepoMock) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	args := m.Called(ctx, filter)
	s, _ := args.Get(0).([]*domain.Session)
	return s, args.Error(1)
}

func (m *sessionRepoMock) Cancel(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

var fixedNow = time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)

func newTestService(repo *sessionRepoMock) *Service {
	svc := NewService(repo, nil, 24*time.Hour, logger.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func scheduled(id string, startsAt time.Time) *domain.Session {
	return &domain.Session{
		ID:              id,
		SubscriptionID:  "sub-1",
		UserID:          "u1",
		TherapistID:     "th-1",
		StartsAt:        startsAt,
		DurationMinutes: 50,
		Timezone:        "Europe/Berlin",
		Status:          domain.SessionScheduled,
	}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	repo := &sessionRepoMock{}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.SessionsFilter) bool {
		return f.UserID == "u1" && f.Status != nil && *f.Status == domain.SessionScheduled
	})).Return([]*domain.Session{scheduled("s1", time.Date(2025, 1, 13, 17, 30, 0, 0, time.UTC))}, nil)
	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListSessionsRequest{
		UserID:   "u1",
		Status:   ptr.Ptr("scheduled"),
		Timezone: "America/New_York",
	})
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)

	s := resp.Sessions[0]
	assert.Equal(t, "2025-01-13T17:30:00Z", s.StartsAt)
	assert.Equal(t, "2025-01-13T18:20:00Z", s.EndsAt)
	assert.Equal(t, "50 min", s.Duration)
	assert.Equal(t, "Mon, 13 Jan 2025 12:30 EST", s.Display)
	assert.Equal(t, "Mon, 13 Jan 2025 18:30 CET (12:30 EST your time)", s.DisplayDual)
}

func TestService_List_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&sessionRepoMock{})
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), &models.ListSessionsRequest{UserID: "u1", From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), &models.ListSessionsRequest{UserID: "u1", Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), &models.ListSessionsRequest{UserID: "u1", Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()

	past := scheduled("past", fixedNow.Add(-time.Hour))
	cancelled := scheduled("cancelled", fixedNow.Add(72*time.Hour))
	cancelled.Status = domain.SessionCancelled

	repo := &sessionRepoMock{}
	repo.On("GetByID", mock.Anything, "soon").Return(scheduled("soon", fixedNow.Add(23*time.Hour)), nil)
	repo.On("GetByID", mock.Anything, "later").Return(scheduled("later", fixedNow.Add(25*time.Hour)), nil)
	repo.On("GetByID", mock.Anything, "past").Return(past, nil)
	repo.On("GetByID", mock.Anything, "cancelled").Return(cancelled, nil)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	repo.On("Cancel", mock.Anything, "later", fixedNow).Return(nil).Once()
	svc := newTestService(repo)

	tests := []struct {
		id     string
		userID string
		want   error
	}{
		{id: "later", userID: "u1", want: nil},
		{id: "soon", userID: "u1", want: ErrTooLateToCancel},
		{id: "past", userID: "u1", want: ErrCannotCancel},
		{id: "cancelled", userID: "u1", want: ErrCannotCancel},
		{id: "later", userID: "u2", want: ErrAccessDenied},
		{id: "missing", userID: "u1", want: ErrSessionNotFound},
	}
	for _, tt := range tests {
		err := svc.Cancel(context.Background(), tt.id, tt.userID)
		if tt.want == nil {
			assert.NoError(t, err, tt.id)
			continue
		}
		assert.ErrorIs(t, err, tt.want, tt.id)
	}

	repo.AssertNumberOfCalls(t, "Cancel", 1)
}
