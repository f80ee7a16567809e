package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions/models"
)

const eventSessionCancelled = "session_cancelled"

// Service сервис для работы с сессиями
type Service struct {
	sessionRepo SessionRepository
	analytics   AnalyticsTracker
	notice      time.Duration
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса сессий.
// cancellationNotice - минимальный срок до начала сессии, при котором её ещё можно отменить.
func NewService(sessionRepo SessionRepository, analytics AnalyticsTracker, cancellationNotice time.Duration, logger Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		analytics:   analytics,
		notice:      cancellationNotice,
		logger:      logger,
		now:         time.Now,
	}
}

// List получает сессии пользователя за период [From, To)
func (s *Service) List(ctx context.Context, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("List: fetching sessions for user=%s", req.UserID)

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("List: invalid period for user=%s: from=%s to=%s", req.UserID, req.From, req.To)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}
	if req.Timezone != "" {
		if _, err := formatting.LoadLocation(req.Timezone); err != nil {
			s.logger.Warn("List: unknown timezone=%q for user=%s", req.Timezone, req.UserID)
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	filter := domain.SessionsFilter{
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		From:           req.From,
		To:             req.To,
	}
	if req.Status != nil {
		status, ok := models.ToDomainSessionStatus(*req.Status)
		if !ok {
			s.logger.Warn("List: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.SessionListResponse{Sessions: make([]models.SessionResponse, 0, len(sessions))}
	for _, session := range sessions {
		item, err := models.FromDomainSession(session, req.Timezone)
		if err != nil {
			s.logger.Error("List: cannot render session id=%s (timezone=%s): %v", session.ID, session.Timezone, err)
			return nil, fmt.Errorf("%w: List - render session: %v", ErrInternal, err)
		}
		resp.Sessions = append(resp.Sessions, *item)
	}

	s.logger.Info("List: successfully fetched %d sessions for user=%s", len(resp.Sessions), req.UserID)
	return resp, nil
}

// Cancel отменяет одну сессию, если до её начала осталось не меньше срока уведомления
func (s *Service) Cancel(ctx context.Context, id, userID string) error {
	s.logger.Info("Cancel: cancelling session id=%s by user=%s", id, userID)

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Cancel: session id=%s not found", id)
			return ErrSessionNotFound
		}
		s.logger.Error("Cancel: repository error for session id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if session.UserID != userID {
		s.logger.Warn("Cancel: access denied for user=%s to session id=%s", userID, id)
		return ErrAccessDenied
	}

	now := s.now().UTC()
	if !session.CanBeCancelled() || !session.StartsAt.After(now) {
		s.logger.Warn("Cancel: session id=%s cannot be cancelled, status=%s", id, session.Status)
		return ErrCannotCancel
	}
	if session.StartsAt.Sub(now) < s.notice {
		s.logger.Warn("Cancel: session id=%s starts at %s, inside the %s notice window", id, session.StartsAt.Format(time.RFC3339), s.notice)
		return ErrTooLateToCancel
	}

	if err := s.sessionRepo.Cancel(ctx, id, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Cancel: session id=%s not found during cancellation", id)
			return ErrSessionNotFound
		}
		s.logger.Error("Cancel: repository error for session id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if s.analytics != nil {
		props := map[string]interface{}{"session_id": id, "subscription_id": session.SubscriptionID}
		if err := s.analytics.Track(ctx, userID, eventSessionCancelled, props, now); err != nil {
			s.logger.Warn("Cancel: failed to record analytics for session id=%s: %v", id, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled session id=%s", id)
	return nil
}
